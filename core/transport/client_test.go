package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/koscakluka/macca-core/core/audio"
	"github.com/koscakluka/macca-core/core/coaching"
	"github.com/koscakluka/macca-core/internal/utils"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	return NewClient(server.URL, WithHTTPClient(server.Client())), &calls
}

func wavPayload(size int) *audio.Payload {
	return &audio.Payload{Data: make([]byte, size), Format: audio.ContainerWAV}
}

func TestSubmitTextTurn(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/session/turn" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body turnRequestBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if body.UserText != "Hello" || body.Mode != coaching.ModeGuided {
			t.Errorf("unexpected request body: %+v", body)
		}
		_, _ = io.WriteString(w, `{"macca_text":"Hi there","feedback":{"grammar_ok":true,"fluency_score":82,"tip_id":"tip_1","step_complete":true}}`)
	})

	reply, err := client.SubmitTurn(context.Background(), TurnRequest{Text: "Hello", Mode: coaching.ModeGuided})
	if err != nil {
		t.Fatalf("expected reply, got %v", err)
	}
	if reply.Text != "Hi there" {
		t.Fatalf("expected reply text, got %q", reply.Text)
	}
	fb := reply.Feedback
	if fb.GrammarOK == nil || !*fb.GrammarOK || fb.FluencyScore == nil || *fb.FluencyScore != 82 || !fb.IsStepComplete() {
		t.Fatalf("unexpected feedback: %+v", fb)
	}
	if fb.EncouragementID != nil {
		t.Fatalf("expected missing encouragement to stay unevaluated")
	}
}

func TestSubmitAudioTurnSendsMultipart(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/session/turn/audio" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("failed to parse multipart form: %v", err)
		}
		if got := r.FormValue("mode"); got != "live" {
			t.Errorf("expected live mode, got %q", got)
		}
		file, header, err := r.FormFile("audio")
		if err != nil {
			t.Errorf("expected audio part: %v", err)
		} else {
			defer file.Close()
			data, _ := io.ReadAll(file)
			if header.Filename != "recording.wav" || len(data) != 1200 {
				t.Errorf("unexpected audio part %q with %d bytes", header.Filename, len(data))
			}
		}
		_, _ = io.WriteString(w, `{"macca_text":"Nice","feedback":null}`)
	})

	reply, err := client.SubmitTurn(context.Background(), TurnRequest{Audio: wavPayload(1200), Mode: coaching.ModeLive})
	if err != nil {
		t.Fatalf("expected reply, got %v", err)
	}
	if !reply.Feedback.IsZero() {
		t.Fatalf("expected null feedback to be empty, got %+v", reply.Feedback)
	}
}

func TestInvalidTurnsNeverReachTheNetwork(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"macca_text":"x"}`)
	})

	cases := map[string]TurnRequest{
		"neither":        {Mode: coaching.ModeLive},
		"blank text":     {Text: "   ", Mode: coaching.ModeLive},
		"both":           {Text: "hi", Audio: wavPayload(2000), Mode: coaching.ModeLive},
		"bad mode":       {Text: "hi", Mode: "karaoke"},
		"short audio":    {Audio: wavPayload(999), Mode: coaching.ModeLive},
		"unknown format": {Audio: &audio.Payload{Data: make([]byte, 2000), Format: "ogg"}, Mode: coaching.ModeLive},
	}
	for name, req := range cases {
		if _, err := client.SubmitTurn(context.Background(), req); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
	if got := calls.Load(); got != 0 {
		t.Fatalf("expected no requests, got %d", got)
	}
}

func TestSubmitTurnErrorCauses(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		want    Cause
	}{
		{
			name: "server",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			want: CauseServer,
		},
		{
			name: "missing macca_text",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"feedback":{"grammar_ok":true}}`)
			},
			want: CauseMalformedResponse,
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `<html>`)
			},
			want: CauseMalformedResponse,
		},
	}

	for _, tc := range cases {
		client, _ := newTestClient(t, tc.handler)
		reply, err := client.SubmitTurn(context.Background(), TurnRequest{Text: "hi", Mode: coaching.ModeLive})
		cause, ok := CauseOf(err)
		if !ok || cause != tc.want {
			t.Fatalf("%s: expected %s cause, got %v", tc.name, tc.want, err)
		}
		if reply != (TurnReply{}) {
			t.Fatalf("%s: expected no partial reply, got %+v", tc.name, reply)
		}
	}
}

func TestSubmitTurnNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client := NewClient(server.URL)
	_, err := client.SubmitTurn(context.Background(), TurnRequest{Text: "hi", Mode: coaching.ModeLive})
	if cause, _ := CauseOf(err); cause != CauseNetwork {
		t.Fatalf("expected network cause, got %v", err)
	}
}

func TestFeedbackFieldsAreDecodedLeniently(t *testing.T) {
	fb := decodeFeedback(json.RawMessage(`{"grammar_ok":"yes","fluency_score":140,"tip_id":"t","step_complete":null}`))

	if fb.GrammarOK != nil || fb.FluencyScore != nil || fb.StepComplete != nil {
		t.Fatalf("expected invalid fields to be unevaluated, got %+v", fb)
	}
	if fb.TipID == nil || *fb.TipID != "t" {
		t.Fatalf("expected tip id to survive, got %+v", fb)
	}

	fb = decodeFeedback(json.RawMessage(`{"fluency_score":79.6}`))
	if fb.FluencyScore == nil || *fb.FluencyScore != 80 {
		t.Fatalf("expected rounded fluency score, got %+v", fb)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user/profile" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		profile := `{"id":"u1","name":"Rina","level":"B1","goal":"job_interview","explanation_language":"id"}`
		if r.Method == http.MethodPatch {
			var update map[string]any
			_ = json.NewDecoder(r.Body).Decode(&update)
			if len(update) != 1 || update["explanation_language"] != "en" {
				t.Errorf("expected partial update, got %v", update)
			}
			profile = `{"id":"u1","name":"Rina","level":"B1","goal":"job_interview","explanation_language":"en"}`
		}
		_, _ = io.WriteString(w, profile)
	})

	profile, err := client.FetchProfile(context.Background())
	if err != nil || profile.Name != "Rina" || profile.ExplanationLanguage != "id" {
		t.Fatalf("unexpected profile %+v, err %v", profile, err)
	}

	updated, err := client.UpdateProfile(context.Background(), coaching.ProfileUpdate{ExplanationLanguage: utils.Ptr("en")})
	if err != nil || updated.ExplanationLanguage != "en" {
		t.Fatalf("unexpected updated profile %+v, err %v", updated, err)
	}

	if _, err := client.UpdateProfile(context.Background(), coaching.ProfileUpdate{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected empty update to be rejected, got %v", err)
	}
}

func TestLessons(t *testing.T) {
	lesson := `{"id":"lesson_1","title":"Job Interview","subtitle":"Intro","steps":["Warm-up","Roleplay"],"current_step":2}`
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/lessons":
			_, _ = io.WriteString(w, "["+lesson+"]")
		case "/lessons/lesson_1":
			_, _ = io.WriteString(w, lesson)
		default:
			http.NotFound(w, r)
		}
	})

	lessons, err := client.ListLessons(context.Background())
	if err != nil || len(lessons) != 1 || lessons[0].ID != "lesson_1" {
		t.Fatalf("unexpected lessons %+v, err %v", lessons, err)
	}

	got, err := client.FetchLesson(context.Background(), "lesson_1")
	if err != nil {
		t.Fatalf("expected lesson, got %v", err)
	}
	if got.CurrentStep != 2 || len(got.Steps) != 2 || got.Subtitle != "Intro" {
		t.Fatalf("unexpected lesson %+v", got)
	}

	if _, err := client.FetchLesson(context.Background(), "missing"); err == nil {
		t.Fatalf("expected missing lesson to fail")
	} else if cause, _ := CauseOf(err); cause != CauseServer {
		t.Fatalf("expected server cause, got %v", err)
	}
}

func TestAnalyzePronunciation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pronunciation/analyze":
			var body analyzeRequestBody
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.Word != "think" {
				t.Errorf("unexpected word %q", body.Word)
			}
		case "/pronunciation/analyze/audio":
			if got := r.FormValue("word"); got != "think" {
				t.Errorf("unexpected word field %q", got)
			}
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = io.WriteString(w, `[{"word":"think","target_sound":"/θ/","status":"needs_work","tip_id":"Lidah di antara gigi","tip_en":"Tongue between teeth","score":62}]`)
	})

	for _, recording := range []*audio.Payload{nil, wavPayload(1500)} {
		results, err := client.AnalyzePronunciation(context.Background(), "think", recording)
		if err != nil || len(results) != 1 {
			t.Fatalf("unexpected results %+v, err %v", results, err)
		}
		result := results[0]
		if result.Score != 62 || result.Status != coaching.PronunciationNeedsWork || result.TargetSound != "/θ/" {
			t.Fatalf("unexpected result %+v", result)
		}
		if result.TipFor(coaching.ExplanationLanguageEnglish) != "Tongue between teeth" ||
			result.TipFor(coaching.ExplanationLanguageIndonesian) != "Lidah di antara gigi" {
			t.Fatalf("unexpected tips %+v", result)
		}
	}
}

func TestAnalyzePronunciationDropsUnknownStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"word":"ship","status":"perfect","score":140}]`)
	})

	results, err := client.AnalyzePronunciation(context.Background(), "ship", nil)
	if err != nil || len(results) != 1 {
		t.Fatalf("unexpected results %+v, err %v", results, err)
	}
	if results[0].Status != "" {
		t.Fatalf("expected unknown status to be dropped, got %q", results[0].Status)
	}
	if results[0].Score != 100 {
		t.Fatalf("expected score to be clamped to 100, got %d", results[0].Score)
	}
}
