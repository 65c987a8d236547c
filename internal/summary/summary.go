// Package summary produces short AI-written summaries of person records.
package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ceu-caminhodomar/portal/internal/record"
)

// DefaultInstruction is the prompt prefix sent before the record data.
const DefaultInstruction = "Você é um assistente administrativo escolar. " +
	"Resuma os dados deste munícipe de forma profissional e concisa (máximo 3 frases): "

// Messages shown in place of a summary.
const (
	FallbackText    = "Não foi possível gerar um resumo."
	UnavailableText = "Erro ao processar análise com IA. Verifique se a chave de API está configurada."
)

// ErrAIUnavailable reports a missing credential or a failed AI request.
var ErrAIUnavailable = errors.New("ai summary unavailable")

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// BuildPrompt renders the instruction followed by one "header: value" line
// per non-empty cell, in column order.
func BuildPrompt(instruction string, r record.Record) string {
	var b strings.Builder
	b.WriteString(instruction)
	for _, p := range r.NonEmpty() {
		b.WriteString("\n")
		b.WriteString(p.Header)
		b.WriteString(": ")
		b.WriteString(p.Value)
	}
	return b.String()
}

// Service summarizes records with a Generator.
type Service struct {
	gen         Generator
	instruction string
	logger      *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithInstruction overrides the prompt prefix.
func WithInstruction(s string) Option {
	return func(svc *Service) {
		if strings.TrimSpace(s) != "" {
			svc.instruction = s
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.logger = l
		}
	}
}

// NewService creates a summary service. A nil generator is allowed; every
// call then fails with ErrAIUnavailable.
func NewService(gen Generator, opts ...Option) *Service {
	svc := &Service{
		gen:         gen,
		instruction: DefaultInstruction,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Available reports whether a generator is configured.
func (s *Service) Available() bool {
	return s != nil && s.gen != nil
}

// Summarize asks the generator for a summary of r. An empty answer yields
// FallbackText; failures wrap ErrAIUnavailable.
func (s *Service) Summarize(ctx context.Context, r record.Record) (string, error) {
	if !s.Available() {
		return "", fmt.Errorf("%w: no generator configured", ErrAIUnavailable)
	}

	text, err := s.gen.Generate(ctx, BuildPrompt(s.instruction, r))
	if err != nil {
		s.logger.Warn("summary request failed", "error", err)
		if errors.Is(err, ErrAIUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrAIUnavailable, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return FallbackText, nil
	}
	return text, nil
}

// Inline returns what to display where the summary goes.
func Inline(text string, err error) string {
	if err != nil {
		return UnavailableText
	}
	if strings.TrimSpace(text) == "" {
		return FallbackText
	}
	return text
}
