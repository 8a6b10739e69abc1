// Package agent asks a Gemini model about the inventory: a one shot analysis
// report, and an interactive assistant.
//
// The model only ever receives a read-only copy of the items and the ledger,
// nothing it answers can change the inventory.
package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/etnz/warehouse"
	"google.golang.org/genai"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Messages shown instead of the analysis when it cannot be produced.
const (
	EmptyAnalysis  = "분석 결과를 생성할 수 없습니다."
	FailedAnalysis = "AI 분석 중 오류가 발생했습니다. 잠시 후 다시 시도해주세요."
)

// RecentLogs is the number of ledger entries sent to the model.
const RecentLogs = 10

// Generator generates content from a prompt. *genai.Models implements it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Analyst writes an inventory analysis report.
type Analyst struct {
	Model string
	gen   Generator
}

// NewAnalyst returns an analyst using gen. An empty model means DefaultModel.
func NewAnalyst(gen Generator, model string) *Analyst {
	if model == "" {
		model = DefaultModel
	}
	return &Analyst{Model: model, gen: gen}
}

// Analyze returns a markdown report about the reconciled items and the most
// recent ledger entries (newest first). It never fails: any problem is logged
// and replaced by one of the fixed fallback messages.
func (a *Analyst) Analyze(ctx context.Context, items []warehouse.Item, logs []warehouse.LogEntry) string {
	if a == nil || a.gen == nil {
		log.Printf("analysis: no model client configured")
		return FailedAnalysis
	}
	config := &genai.GenerateContentConfig{
		ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	}
	resp, err := a.gen.GenerateContent(ctx, a.Model, genai.Text(Prompt(items, logs)), config)
	if err != nil {
		log.Printf("analysis: %v", err)
		return FailedAnalysis
	}
	if resp == nil {
		return EmptyAnalysis
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return EmptyAnalysis
	}
	return text
}

// Prompt builds the analysis request sent to the model.
func Prompt(items []warehouse.Item, logs []warehouse.LogEntry) string {
	var b strings.Builder
	b.WriteString(`당신은 전문 재고 관리 및 물류 컨설턴트 AI입니다.
다음은 현재 창고의 재고 현황과 최근 입출고 기록입니다.

데이터를 분석하여 다음 내용을 포함한 마크다운 형식의 보고서를 작성해주세요:
1. **재고 현황 요약**: 전체적인 재고 건전성 평가.
2. **긴급 조치 필요**: 안전 재고 미만인 물품 식별 및 발주 제안.
3. **트렌드 및 인사이트**: 최근 입출고 패턴을 기반으로 한 간단한 분석.
4. **효율화 제안**: 재고 회전율이나 관리 측면에서의 조언.

---
[현재 재고 목록]
`)
	writeInventory(&b, items)
	fmt.Fprintf(&b, "\n[최근 활동 기록 (최근 %d건)]\n", RecentLogs)
	writeLogs(&b, logs, RecentLogs)
	b.WriteString("---\n\n한국어로 정중하고 전문적인 어조로 작성해주세요.\n")
	return b.String()
}

func writeInventory(b *strings.Builder, items []warehouse.Item) {
	for _, it := range items {
		fmt.Fprintf(b, "- %s (%s): 현재 %d개 (안전재고: %d, 단가: %s원)\n", it.Name, it.Category, it.Quantity, it.SafetyStock, it.Price)
	}
}

func writeLogs(b *strings.Builder, logs []warehouse.LogEntry, n int) {
	if len(logs) > n {
		logs = logs[:n]
	}
	for _, e := range logs {
		dir := "출고"
		if e.Type == warehouse.In {
			dir = "입고"
		}
		note := e.Note
		if note == "" {
			note = "내용 없음"
		}
		fmt.Fprintf(b, "- %s: %s %s %d개 (%s)\n", e.Timestamp.Format("2006-01-02"), dir, e.ItemName, e.Quantity, note)
	}
}
