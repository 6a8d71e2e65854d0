package compose

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rarotec/relatorios/layout"
	"github.com/rarotec/relatorios/report"
)

const (
	attachmentsTitle   = "Anexos do Relatório"
	attachmentsSection = "DOCUMENTOS ANEXADOS"
)

// attachmentsNote closes the index; the files themselves travel separately.
var attachmentsNote = []string{
	"Nota: Os arquivos originais foram anexados separadamente e estão disponíveis",
	"para consulta conforme necessário. Este documento serve como índice dos anexos.",
}

// ComposeAttachmentsIndex lays out the companion index listing every uploaded
// file by name, size and type. It returns nil when there is nothing to list.
func (c *Composer) ComposeAttachmentsIndex(ctx context.Context, attachments []report.Attachment, variant report.Variant) (*layout.Result, error) {
	if len(attachments) == 0 {
		return nil, nil
	}
	now := c.Now()
	header, err := c.header(attachmentsTitle, variant.Label(), now)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	flow := layout.NewFlow(c.opts.Geometry, header)
	w := layout.NewSectionWriter(flow, c.measurer(), c.opts.Palette)

	// The subtitle pushes the header down, so the list starts one gap lower.
	flow.Skip(layout.BlockGap)
	if err := w.Title(attachmentsSection, layout.CardHeight); err != nil {
		return nil, err
	}
	for i, a := range attachments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		card := layout.CardSpec{
			Badge: strconv.Itoa(i + 1),
			Title: a.Name,
			Details: []string{
				fmt.Sprintf("Tamanho: %s MB", a.SizeMB()),
				fmt.Sprintf("Tipo: %s", a.TypeOrFallback()),
			},
		}
		if err := w.Card(card); err != nil {
			return nil, fmt.Errorf("attachment %d: %w", i+1, err)
		}
	}
	if err := w.Note(attachmentsNote); err != nil {
		return nil, err
	}
	return c.finish(ctx, flow, now, layout.DocumentMeta{
		Title:   attachmentsTitle,
		Subject: variant.Label(),
	})
}
