package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/petpal/pkg/domain/interfaces"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/secmon-lab/petpal/pkg/service/foodlabel"
	"github.com/secmon-lab/petpal/pkg/utils/errutil"
	"github.com/secmon-lab/petpal/pkg/utils/logging"
)

//go:embed prompt/pros_cons.md
var prosConsPromptTmpl string

var prosConsPrompt = template.Must(template.New("pros_cons").Parse(prosConsPromptTmpl))

// IngestResult describes what happened to one scanned label
type IngestResult struct {
	Label      model.FoodLabel
	Indexed    bool
	DocumentID string
	ProsCons   string
}

// LabelUseCase turns OCR text of food labels into searchable documents
type LabelUseCase struct {
	indexer   interfaces.DocumentIndexer
	generator interfaces.TextGenerator
}

// NewLabelUseCase creates a LabelUseCase. A nil indexer disables indexing and a
// nil generator disables the pros and cons summary.
func NewLabelUseCase(indexer interfaces.DocumentIndexer, generator interfaces.TextGenerator) *LabelUseCase {
	return &LabelUseCase{
		indexer:   indexer,
		generator: generator,
	}
}

// Ingest parses raw label text and indexes it when ingredients were found
func (uc *LabelUseCase) Ingest(ctx context.Context, raw string) (*IngestResult, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, goerr.Wrap(ErrEmptyLabel, "cannot ingest label")
	}

	result := &IngestResult{Label: foodlabel.ParseLabel(raw)}
	logger := logging.From(ctx).With("product_name", result.Label.ProductName)

	if !result.Label.HasIngredients() {
		logger.Info("label has no ingredients, skipped indexing")
		return result, nil
	}

	if uc.indexer != nil {
		doc := result.Label.ToDocument()
		if err := uc.indexer.Add(ctx, doc); err != nil {
			return nil, goerr.Wrap(err, "failed to index food label", goerr.V("product_name", result.Label.ProductName))
		}
		result.Indexed = true
		result.DocumentID = doc.ID
		logger.Info("food label indexed", "document_id", doc.ID)
	}

	if uc.generator != nil {
		prosCons, err := uc.prosCons(ctx, &result.Label)
		if err != nil {
			// the label is already stored; the summary is best effort
			_ = errutil.Handle(ctx, err, "failed to generate pros and cons")
		} else {
			result.ProsCons = prosCons
		}
	}

	return result, nil
}

func (uc *LabelUseCase) prosCons(ctx context.Context, label *model.FoodLabel) (string, error) {
	data, err := json.MarshalIndent(label, "", "  ")
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal food label")
	}

	var buf bytes.Buffer
	if err := prosConsPrompt.Execute(&buf, map[string]any{"Data": string(data)}); err != nil {
		return "", goerr.Wrap(err, "failed to render pros and cons prompt")
	}

	text, err := uc.generator.Generate(ctx, buf.String())
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate pros and cons")
	}
	return strings.TrimSpace(text), nil
}
