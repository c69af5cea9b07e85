package tui

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/huh"
)

// huhDriver runs each prompt as a single-field huh form.
type huhDriver struct {
	out io.Writer
}

var _ PromptDriver = (*huhDriver)(nil)

func (d *huhDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	value := cfg.Default
	field := huh.NewInput().
		Title(cfg.Message).
		Description(cfg.Help).
		Placeholder(cfg.Placeholder).
		Value(&value)
	return value, run(ctx, field)
}

func (d *huhDriver) Password(ctx context.Context, cfg InputConfig) (string, error) {
	var value string
	field := huh.NewInput().
		Title(cfg.Message).
		Description(cfg.Help).
		Placeholder(cfg.Placeholder).
		EchoMode(huh.EchoModePassword).
		Value(&value)
	return value, run(ctx, field)
}

func (d *huhDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	value := cfg.Default
	field := huh.NewText().
		Title(cfg.Message).
		Description(cfg.Help).
		CharLimit(0).
		Value(&value)
	return value, run(ctx, field)
}

func (d *huhDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	value := cfg.DefaultIndex
	field := huh.NewSelect[int]().
		Title(cfg.Message).
		Description(cfg.Help).
		Options(indexedOptions(cfg.Options)...).
		Value(&value)
	if cfg.PageSize > 0 {
		field = field.Height(cfg.PageSize + 2)
	}
	return value, run(ctx, field)
}

func (d *huhDriver) MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error) {
	value := append([]int(nil), cfg.Defaults...)
	field := huh.NewMultiSelect[int]().
		Title(cfg.Message).
		Description(cfg.Help).
		Options(indexedOptions(cfg.Options)...).
		Value(&value)
	if cfg.PageSize > 0 {
		field = field.Height(cfg.PageSize + 2)
	}
	return value, run(ctx, field)
}

func (d *huhDriver) Info(ctx context.Context, msg string) error {
	return writeLine(ctx, d.out, msg)
}

func run(ctx context.Context, field huh.Field) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := huh.NewForm(huh.NewGroup(field)).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}

func indexedOptions(labels []string) []huh.Option[int] {
	out := make([]huh.Option[int], 0, len(labels))
	for i, label := range labels {
		out = append(out, huh.NewOption(label, i))
	}
	return out
}
