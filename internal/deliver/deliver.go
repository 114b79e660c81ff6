// Package deliver implements the final pipeline stage: naming the
// summary artifact, uploading it back to the source folder, and mailing
// it with the transcript attached.
package deliver

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"voxum/internal/logging"
	"voxum/internal/pipeline"
	"voxum/internal/services"
	"voxum/internal/services/resend"
)

// Uploader stores the summary next to the source recording.
type Uploader interface {
	Upload(ctx context.Context, folderID, name, mimeType string, content []byte) (string, error)
}

// Mailer sends the summary email.
type Mailer interface {
	Send(ctx context.Context, msg resend.Message) (string, error)
}

// Options carries the delivery targets. Empty FolderID disables the
// upload; EmailEnabled false disables the email. At least one target
// must be active.
type Options struct {
	FolderID     string
	EmailEnabled bool
	EmailTo      []string
	EmailFrom    string
}

// Deliverer implements the delivery stage.
type Deliverer struct {
	uploader Uploader
	mailer   Mailer
	opts     Options
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures the deliverer.
type Option func(*Deliverer)

// WithClock overrides the time source used for summary filenames.
func WithClock(now func() time.Time) Option {
	return func(d *Deliverer) {
		if now != nil {
			d.now = now
		}
	}
}

// New constructs the delivery stage.
func New(uploader Uploader, mailer Mailer, opts Options, logger *slog.Logger, extra ...Option) *Deliverer {
	d := &Deliverer{
		uploader: uploader,
		mailer:   mailer,
		opts:     opts,
		now:      time.Now,
		logger:   logging.NewComponentLogger(logger, "deliver"),
	}
	for _, opt := range extra {
		opt(d)
	}
	return d
}

// Deliver publishes the summary. Both targets must succeed for the
// stage to succeed; a failed upload is not rolled back when the email
// then fails.
func (d *Deliverer) Deliver(ctx context.Context, req pipeline.Delivery) (pipeline.Receipt, error) {
	var receipt pipeline.Receipt
	if strings.TrimSpace(req.Summary.Text) == "" {
		return receipt, services.Wrap(services.ErrValidation, "deliver", "validate", "summary text is empty", nil)
	}
	uploadActive := d.opts.FolderID != "" && d.uploader != nil
	emailActive := d.opts.EmailEnabled && d.mailer != nil
	if !uploadActive && !emailActive {
		return receipt, services.Wrap(services.ErrConfiguration, "deliver", "validate", "no delivery target configured", nil)
	}

	logger := logging.WithContext(ctx, d.logger)
	stamp := d.now().UTC().Format("2006-01-02")
	stem := fileStem(req.Input.Name)
	receipt.SummaryFilename = fmt.Sprintf("%s_%s_summary.txt", stem, stamp)

	if uploadActive {
		fileID, err := d.uploader.Upload(ctx, d.opts.FolderID, receipt.SummaryFilename, "text/plain", []byte(req.Summary.Text))
		if err != nil {
			return receipt, services.Wrap(services.ErrExternalService, "deliver", "upload", "summary upload failed", err)
		}
		receipt.DriveFileID = fileID
		logger.Info("summary uploaded",
			logging.String("file", receipt.SummaryFilename),
			logging.String("drive_file_id", fileID))
	}

	if emailActive {
		msg := resend.Message{
			From:    d.opts.EmailFrom,
			To:      d.opts.EmailTo,
			Subject: "Meeting Summary: " + displayTitle(req.Input.Name),
			Text:    emailBody(req),
			Attachments: []resend.Attachment{
				{Filename: receipt.SummaryFilename, Content: []byte(req.Summary.Text)},
				{Filename: fmt.Sprintf("%s_%s_transcript.txt", stem, stamp), Content: []byte(req.Transcript)},
			},
		}
		emailID, err := d.mailer.Send(ctx, msg)
		if err != nil {
			return receipt, services.Wrap(services.ErrExternalService, "deliver", "email", "summary email failed", err)
		}
		receipt.EmailID = emailID
		logger.Info("summary emailed",
			logging.String("email_id", emailID),
			logging.Int("recipients", len(d.opts.EmailTo)))
	}

	return receipt, nil
}

var titleCaser = cases.Title(language.English)

func fileStem(name string) string {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if stem == "" {
		return "recording"
	}
	return stem
}

func displayTitle(name string) string {
	stem := strings.NewReplacer("_", " ", "-", " ").Replace(fileStem(name))
	stem = strings.Join(strings.Fields(stem), " ")
	if stem == "" {
		return "Recording"
	}
	return titleCaser.String(stem)
}

func emailBody(req pipeline.Delivery) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summary of %s (%s, %s)\n\n", req.Input.Name, req.Summary.Model, req.Summary.Language)
	b.WriteString(req.Summary.Text)
	b.WriteString("\n\nThe full transcript is attached.\n")
	return b.String()
}
