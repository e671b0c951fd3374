package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

type AIService struct {
	client *openai.Client
}

type GeneratedTask struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// GenerateTasksFromText asks the model to break a brief into project tasks
func (s *AIService) GenerateTasksFromText(ctx context.Context, projectName string, deadline *time.Time, text string) ([]GeneratedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: buildTaskPrompt(time.Now(), projectName, deadline, text),
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseGeneratedTasks(resp.Choices[0].Message.Content)
}

func buildTaskPrompt(now time.Time, projectName string, deadline *time.Time, text string) string {
	deadlineText := "none"
	if deadline != nil {
		deadlineText = deadline.Format(time.RFC3339)
	}

	return fmt.Sprintf(`You are a project planning assistant. Extract concrete, actionable tasks from the text below.

Current time: %s
Project: %s
Project deadline: %s

Text:
%s

Return a JSON array of tasks in this format:
[
  {
    "title": "short task title",
    "description": "task details",
    "due_date": "due date in ISO8601 (e.g. 2025-10-28T23:59:59Z), or null when none is implied"
  }
]

Rules:
- Return [] when there are no tasks
- Convert relative dates ("tomorrow", "next week") to absolute dates
- No due date may fall after the project deadline
- Return JSON only, without any explanation`, now.Format("2006-01-02 15:04:05"), projectName, deadlineText, text)
}

// parseGeneratedTasks accepts the model output, tolerating a fenced code block.
func parseGeneratedTasks(content string) ([]GeneratedTask, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var tasks []GeneratedTask
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return tasks, nil
}
