package summarize

import (
	"context"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/dgallion1/pdfdigest/internal/completion/mocks"
	"github.com/dgallion1/pdfdigest/internal/document"
)

func TestSummarize_WithMockService(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)

	gomock.InOrder(
		svc.EXPECT().Complete(gomock.Any(), MapPrompt, "Abstract text.").Return("Partial.", nil),
		svc.EXPECT().Complete(gomock.Any(), CombinePrompt, "Partial.").Return("Final summary.", nil),
	)

	s := New(svc, nil, Config{}, testLogger())
	got, err := s.Summarize(context.Background(), []document.Chunk{{Index: 0, Text: "Abstract text."}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Final summary." {
		t.Errorf("expected final summary, got %q", got)
	}
}
