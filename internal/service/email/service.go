package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/resend/resend-go/v3"

	"dapur-keluarga/internal/config"
)

type Service interface {
	SendEmailVerification(ctx context.Context, toEmail, fullName, verificationToken string) error
	SendPasswordResetEmail(ctx context.Context, toEmail, fullName, resetToken string) error
	SendNewCommentEmail(ctx context.Context, toEmail, recipientName, authorName, recipeTitle string) error
	SendNewReplyEmail(ctx context.Context, toEmail, recipientName, authorName, recipeTitle string) error
}

type service struct {
	client       *resend.Client
	config       *config.Config
	templatePath string
}

func NewService(cfg *config.Config) Service {
	client := resend.NewClient(cfg.ResendAPIKey)
	templatePath := "internal/service/templates/email"
	return &service{
		client:       client,
		config:       cfg,
		templatePath: templatePath,
	}
}

func (s *service) sendEmail(toEmail, subject, templateName string, data interface{}) error {
	tmpl, err := template.ParseFiles(
		filepath.Join(s.templatePath, "layout.html"),
		filepath.Join(s.templatePath, templateName),
	)
	if err != nil {
		return fmt.Errorf("failed to parse email templates: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Dapur Keluarga <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	}

	_, err = s.client.Emails.Send(params)
	return err
}

func (s *service) SendEmailVerification(ctx context.Context, toEmail, fullName, verificationToken string) error {
	data := struct {
		Title string
		Name  string
		Link  string
	}{
		Title: "Verifikasi Email - Dapur Keluarga",
		Name:  fullName,
		Link:  fmt.Sprintf("https://%s/verify-email?token=%s", s.config.Domain, verificationToken),
	}
	return s.sendEmail(toEmail, "Verifikasi Email - Dapur Keluarga", "verification.html", data)
}

func (s *service) SendPasswordResetEmail(ctx context.Context, toEmail, fullName, resetToken string) error {
	data := struct {
		Title string
		Name  string
		Link  string
	}{
		Title: "Reset Kata Sandi - Dapur Keluarga",
		Name:  fullName,
		Link:  fmt.Sprintf("https://%s/reset-password?token=%s", s.config.Domain, resetToken),
	}
	return s.sendEmail(toEmail, "Permintaan Reset Kata Sandi - Dapur Keluarga", "reset_password.html", data)
}

func (s *service) SendNewCommentEmail(ctx context.Context, toEmail, recipientName, authorName, recipeTitle string) error {
	data := struct {
		Title       string
		Name        string
		AuthorName  string
		RecipeTitle string
	}{
		Title:       "Komentar Baru di Resep Anda",
		Name:        recipientName,
		AuthorName:  authorName,
		RecipeTitle: recipeTitle,
	}
	return s.sendEmail(toEmail, "Komentar Baru di Resep Anda - Dapur Keluarga", "new_comment.html", data)
}

func (s *service) SendNewReplyEmail(ctx context.Context, toEmail, recipientName, authorName, recipeTitle string) error {
	data := struct {
		Title       string
		Name        string
		AuthorName  string
		RecipeTitle string
	}{
		Title:       "Balasan Baru untuk Komentar Anda",
		Name:        recipientName,
		AuthorName:  authorName,
		RecipeTitle: recipeTitle,
	}
	return s.sendEmail(toEmail, "Balasan Baru untuk Komentar Anda - Dapur Keluarga", "new_reply.html", data)
}
