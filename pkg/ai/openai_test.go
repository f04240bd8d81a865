package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestSummarizer(t *testing.T, handler http.HandlerFunc) *OpenAISummarizer {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	summarizer, err := NewOpenAISummarizer(OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	return summarizer
}

func TestNewOpenAISummarizerRequiresKey(t *testing.T) {
	_, err := NewOpenAISummarizer(OpenAIConfig{})
	require.Error(t, err)
}

func TestSummarizeRendersEntriesIntoPrompt(t *testing.T) {
	var captured struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	summarizer := newTestSummarizer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{"role": "assistant", "content": "  A calm teaching day.  "}},
			},
		})
	})

	summary, err := summarizer.Summarize(context.Background(), []DigestEntry{
		{TeacherName: "Asha Verma", ActivityType: "Class", Description: "Algebra revision"},
	})
	require.NoError(t, err)
	require.Equal(t, "A calm teaching day.", summary)

	require.Len(t, captured.Messages, 2)
	userPrompt := captured.Messages[1].Content
	require.True(t, strings.Contains(userPrompt, "Teacher: Asha Verma"))
	require.True(t, strings.Contains(userPrompt, "Activity: Class"))
	require.True(t, strings.Contains(userPrompt, "Description: Algebra revision"))
}

func TestSummarizeUpstreamFailure(t *testing.T) {
	summarizer := newTestSummarizer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusInternalServerError)
	})

	_, err := summarizer.Summarize(context.Background(), nil)
	require.Error(t, err)
}

func TestSummarizeNoChoices(t *testing.T) {
	summarizer := newTestSummarizer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	})

	_, err := summarizer.Summarize(context.Background(), nil)
	require.Error(t, err)
}
