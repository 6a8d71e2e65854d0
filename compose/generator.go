package compose

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/rarotec/relatorios/binding"
	"github.com/rarotec/relatorios/layout"
	"github.com/rarotec/relatorios/renderer"
	"github.com/rarotec/relatorios/report"
)

// Outcome messages shown to the person who asked for the report.
const (
	MessageSingle  = "O relatório foi gerado com sucesso."
	MessageTwo     = "Foram gerados dois PDFs: o relatório principal e outro com os anexos."
	MessageFailure = "Ocorreu um erro ao gerar o relatório. Por favor, tente novamente."
)

// Default output file names. ${variant} is the report type tag (servicos or
// migracao) and ${date} the generation day as DD-MM-YYYY.
const (
	DefaultReportTemplate      binding.Template = "report-${variant}-${date}.pdf"
	DefaultAttachmentsTemplate binding.Template = "attachments-report-${variant}-${date}.pdf"
)

// TemplateVars are the placeholders a file name template may use.
var TemplateVars = []string{"variant", "date", "id"}

// Request is one generation: the report data and the uploaded file list.
type Request struct {
	Data        *report.Data
	Attachments []report.Attachment
}

// Result is the outcome of Generate. Success is false whenever any step
// failed, in which case no file is left behind.
type Result struct {
	ID      string   `json:"id"`
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Files   []string `json:"files,omitempty"`
}

// Generator composes, renders and saves the documents of one request.
type Generator struct {
	Composer            *Composer
	Renderer            renderer.Renderer
	Saver               Saver
	ReportTemplate      binding.Template
	AttachmentsTemplate binding.Template

	// DebugDir, when set, receives the layout JSON of every document on DebugFs.
	DebugFs  afero.Fs
	DebugDir string
}

// Validate checks the file name templates.
func (g *Generator) Validate() error {
	for _, tpl := range []binding.Template{g.reportTemplate(), g.attachmentsTemplate()} {
		if err := tpl.Check(TemplateVars...); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) reportTemplate() binding.Template {
	if g.ReportTemplate == "" {
		return DefaultReportTemplate
	}
	return g.ReportTemplate
}

func (g *Generator) attachmentsTemplate() binding.Template {
	if g.AttachmentsTemplate == "" {
		return DefaultAttachmentsTemplate
	}
	return g.AttachmentsTemplate
}

type document struct {
	name string
	pdf  []byte
}

// Generate never returns an error: every failure, panics included, is
// logged and reported through Result.
func (g *Generator) Generate(ctx context.Context, req Request) (res Result) {
	id := uuid.NewString()
	logger := zerolog.Ctx(ctx).With().Str("generation", id).Logger()
	ctx = logger.WithContext(ctx)
	res = Result{ID: id}

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("report generation panicked")
			res = Result{ID: id, Message: MessageFailure}
		}
	}()

	files, err := g.generate(ctx, id, req)
	if err != nil {
		logger.Error().Err(err).Msg("report generation failed")
		return Result{ID: id, Message: MessageFailure}
	}
	res.Success = true
	res.Files = files
	res.Message = MessageSingle
	if len(files) > 1 {
		res.Message = MessageTwo
	}
	logger.Info().Strs("files", files).Msg("report generated")
	return res
}

func (g *Generator) generate(ctx context.Context, id string, req Request) ([]string, error) {
	if req.Data == nil {
		return nil, ErrNoData
	}
	if err := report.ValidateAttachments(req.Attachments); err != nil {
		return nil, err
	}
	variant := req.Data.Variant
	vars := binding.Vars{
		"variant": variant.String(),
		"date":    g.Composer.Now().Format("02-01-2006"),
		"id":      id,
	}

	// Render everything before saving anything.
	main, err := g.Composer.Compose(ctx, req.Data)
	if err != nil {
		return nil, fmt.Errorf("compose report: %w", err)
	}
	docs := make([]document, 0, 2)
	doc, err := g.render(ctx, id, g.reportTemplate().Expand(vars), main)
	if err != nil {
		return nil, err
	}
	docs = append(docs, doc)

	index, err := g.Composer.ComposeAttachmentsIndex(ctx, req.Attachments, variant)
	if err != nil {
		return nil, fmt.Errorf("compose attachments index: %w", err)
	}
	if index != nil {
		doc, err := g.render(ctx, id, g.attachmentsTemplate().Expand(vars), index)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return g.save(ctx, docs)
}

func (g *Generator) render(ctx context.Context, id, name string, res *layout.Result) (document, error) {
	res.Meta.Keywords = append(res.Meta.Keywords, id)
	if g.DebugDir != "" && g.DebugFs != nil {
		path := filepath.Join(g.DebugDir, strings.TrimSuffix(name, filepath.Ext(name))+".json")
		if err := layout.WriteDebugJSON(g.DebugFs, res, path); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("layout debug output skipped")
		}
	}
	pdf, err := g.Renderer.Render(res)
	if err != nil {
		return document{}, fmt.Errorf("render %s: %w", name, err)
	}
	return document{name: name, pdf: pdf}, nil
}

// save stores the documents in order and removes the ones already saved
// when a later one fails.
func (g *Generator) save(ctx context.Context, docs []document) ([]string, error) {
	saved := make([]string, 0, len(docs))
	for _, d := range docs {
		path, err := g.Saver.Save(d.name, d.pdf)
		if err != nil {
			for _, p := range saved {
				if rmErr := g.Saver.Remove(p); rmErr != nil {
					zerolog.Ctx(ctx).Error().Err(rmErr).Str("path", p).Msg("could not roll back saved document")
				}
			}
			return nil, fmt.Errorf("save %s: %w", d.name, err)
		}
		saved = append(saved, path)
	}
	return saved, nil
}
