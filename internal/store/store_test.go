package store

import (
	"context"
	"testing"
	"time"

	"github.com/briefwire/briefwire/internal/models"
)

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	summary := models.Summary{
		ArticleFingerprint: "fp-1",
		Text:               "Something happened.",
		ModelUsed:          "stub-model",
		GeneratedAt:        time.Now().UTC(),
	}
	if err := m.WriteSummary(ctx, summary); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}

	output := models.FormattedOutput{
		SummaryFingerprint: "fp-1",
		Platform:           models.PlatformNewsletter,
		Content:            "## Something happened\n\nSomething happened.",
		Status:             models.OutputStatusReady,
	}
	if err := m.WriteOutput(ctx, output); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}

	record, err := m.ReadExisting(ctx, "fp-1")
	if err != nil {
		t.Fatalf("ReadExisting: %v", err)
	}
	if record == nil {
		t.Fatal("record is nil")
	}
	if record.Summary.Text != "Something happened." {
		t.Errorf("Summary.Text = %q", record.Summary.Text)
	}
	if len(record.Outputs) != 1 || record.Outputs[0].Platform != models.PlatformNewsletter {
		t.Errorf("Outputs = %+v", record.Outputs)
	}
	if !record.Complete() {
		t.Error("record with a ready output should be complete")
	}
}

func TestMemoryReadMissing(t *testing.T) {
	record, err := NewMemory().ReadExisting(context.Background(), "absent")
	if err != nil {
		t.Fatalf("ReadExisting: %v", err)
	}
	if record != nil {
		t.Errorf("record = %+v, want nil", record)
	}
}

func TestMemoryLastWriterWins(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	first := models.Summary{ArticleFingerprint: "fp-1", Text: "first"}
	second := models.Summary{ArticleFingerprint: "fp-1", Text: "second"}
	if err := m.WriteSummary(ctx, first); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	if err := m.WriteSummary(ctx, second); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}

	if m.SummaryCount() != 1 {
		t.Errorf("SummaryCount = %d, want 1", m.SummaryCount())
	}

	record, err := m.ReadExisting(ctx, "fp-1")
	if err != nil {
		t.Fatalf("ReadExisting: %v", err)
	}
	if record.Summary.Text != "second" {
		t.Errorf("Summary.Text = %q, want second", record.Summary.Text)
	}

	out := models.FormattedOutput{
		SummaryFingerprint: "fp-1",
		Platform:           models.PlatformSocialPost,
		Status:             models.OutputStatusFailed,
		Reason:             "too short",
	}
	if err := m.WriteOutput(ctx, out); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}
	out.Status = models.OutputStatusReady
	out.Content = "post text"
	out.Reason = ""
	if err := m.WriteOutput(ctx, out); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}

	if m.OutputCount() != 1 {
		t.Errorf("OutputCount = %d, want 1", m.OutputCount())
	}
	record, _ = m.ReadExisting(ctx, "fp-1")
	if len(record.Outputs) != 1 || !record.Outputs[0].Ready() {
		t.Errorf("Outputs = %+v, want one ready output", record.Outputs)
	}
}

func TestRecordComplete(t *testing.T) {
	tests := []struct {
		name   string
		record *Record
		want   bool
	}{
		{
			name:   "nil record",
			record: nil,
			want:   false,
		},
		{
			name:   "no summary",
			record: &Record{},
			want:   false,
		},
		{
			name: "summary without outputs",
			record: &Record{
				Summary: models.Summary{ArticleFingerprint: "fp"},
			},
			want: false,
		},
		{
			name: "summary with only failed outputs",
			record: &Record{
				Summary: models.Summary{ArticleFingerprint: "fp"},
				Outputs: []models.FormattedOutput{
					{Platform: models.PlatformSocialPost, Status: models.OutputStatusFailed},
				},
			},
			want: false,
		},
		{
			name: "summary with one ready output",
			record: &Record{
				Summary: models.Summary{ArticleFingerprint: "fp"},
				Outputs: []models.FormattedOutput{
					{Platform: models.PlatformSocialPost, Status: models.OutputStatusFailed},
					{Platform: models.PlatformNewsletter, Status: models.OutputStatusReady},
				},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.Complete(); got != tt.want {
				t.Errorf("Complete = %v, want %v", got, tt.want)
			}
		})
	}
}
