package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/warehouse"
	"google.golang.org/genai"
)

// Chat is a conversation with a model. *genai.Chat implements it.
type Chat interface {
	Send(ctx context.Context, parts ...*genai.Part) (*genai.GenerateContentResponse, error)
}

// Assistant answers questions about the inventory in an interactive session.
type Assistant struct {
	w io.Writer
	r *bufio.Reader
}

// New creates an Assistant writing to w and reading questions from r.
func New(w io.Writer, r io.Reader) *Assistant {
	return &Assistant{w: w, r: bufio.NewReader(r)}
}

// Instruction returns the system instruction giving the model the inventory
// the conversation is about.
func Instruction(items []warehouse.Item, logs []warehouse.LogEntry) *genai.Content {
	var b strings.Builder
	b.WriteString("당신은 창고 재고 관리 도우미입니다. 아래 데이터만을 근거로 한국어로 간결하게 답하세요.\n\n[현재 재고 목록]\n")
	writeInventory(&b, items)
	b.WriteString("\n[입출고 기록]\n")
	writeLogs(&b, logs, 50)
	return genai.NewContentFromText(b.String(), genai.RoleUser)
}

// StartChat opens a chat about the inventory.
func StartChat(ctx context.Context, client *genai.Client, model string, items []warehouse.Item, logs []warehouse.LogEntry) (*genai.Chat, error) {
	if model == "" {
		model = DefaultModel
	}
	config := &genai.GenerateContentConfig{SystemInstruction: Instruction(items, logs)}
	return client.Chats.Create(ctx, model, config, nil)
}

const prompt = "assist> "

// Run starts the interactive REPL session. The prompts are asked first, then
// the questions are read until "bye" or the end of the input.
func (a *Assistant) Run(ctx context.Context, chat Chat, prompts ...string) error {
	fmt.Fprintln(a.w, "Warehouse assistant. Type 'bye' to exit.")
	for {
		fmt.Fprint(a.w, prompt)
		var input string
		if len(prompts) > 0 {
			input, prompts = strings.TrimSpace(prompts[0]), prompts[1:]
			if input == "" {
				continue
			}
			fmt.Fprintln(a.w, input)
		} else {
			var err error
			input, err = a.r.ReadString('\n')
			if err == io.EOF && strings.TrimSpace(input) == "" {
				return nil // Clean exit on Ctrl+D
			}
			if err != nil && err != io.EOF {
				return err
			}
		}
		input = strings.TrimSpace(input)
		if input == "bye" {
			return nil
		}
		if input == "" {
			continue
		}

		resp, err := chat.Send(ctx, &genai.Part{Text: input})
		if err != nil {
			return fmt.Errorf("assistant: %w", err)
		}
		text := strings.TrimSpace(resp.Text())
		if text == "" {
			text = EmptyAnalysis
		}
		fmt.Fprintln(a.w, text)
	}
}
