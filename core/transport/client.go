package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/koscakluka/macca-core/core/audio"
	"github.com/koscakluka/macca-core/core/coaching"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const maxErrorBodyBytes = 4 << 10

// Client talks to the coaching backend over HTTP.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	timeout       time.Duration
	minAudioBytes int
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		timeout:       DefaultTimeout,
		minAudioBytes: DefaultMinAudioBytes,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.timeout > 0 {
		httpClient := *c.httpClient
		httpClient.Timeout = c.timeout
		c.httpClient = &httpClient
	}
	return c
}

func (c *Client) SubmitTurn(ctx context.Context, req TurnRequest) (TurnReply, error) {
	ctx, span := tracer.Start(ctx, "submit turn")
	defer span.End()
	span.SetAttributes(
		attribute.String("turn.mode", req.Mode.String()),
		attribute.Bool("turn.voice", req.IsVoice()),
	)

	if err := req.Validate(c.minAudioBytes); err != nil {
		recordError(span, err)
		return TurnReply{}, err
	}

	var (
		httpReq *http.Request
		err     error
	)
	if req.IsVoice() {
		httpReq, err = c.newMultipartRequest(ctx, "/session/turn/audio", *req.Audio, map[string]string{"mode": req.Mode.String()})
	} else {
		httpReq, err = c.newJSONRequest(ctx, http.MethodPost, "/session/turn", turnRequestBody{UserText: req.Text, Mode: req.Mode})
	}
	if err != nil {
		recordError(span, err)
		return TurnReply{}, err
	}

	var body turnResponseBody
	if err := c.do(span, "submit turn", httpReq, &body); err != nil {
		return TurnReply{}, err
	}
	if body.MaccaText == nil {
		err := &TransportError{Op: "submit turn", Cause: CauseMalformedResponse, Err: fmt.Errorf("response is missing macca_text")}
		recordError(span, err)
		return TurnReply{}, err
	}

	return TurnReply{Text: *body.MaccaText, Feedback: decodeFeedback(body.Feedback)}, nil
}

func (c *Client) FetchProfile(ctx context.Context) (coaching.Profile, error) {
	ctx, span := tracer.Start(ctx, "fetch profile")
	defer span.End()

	req, err := c.newJSONRequest(ctx, http.MethodGet, "/user/profile", nil)
	if err != nil {
		recordError(span, err)
		return coaching.Profile{}, err
	}

	return c.doProfile(span, "fetch profile", req)
}

// UpdateProfile sends only the fields set in update and returns the full
// updated profile.
func (c *Client) UpdateProfile(ctx context.Context, update coaching.ProfileUpdate) (coaching.Profile, error) {
	ctx, span := tracer.Start(ctx, "update profile")
	defer span.End()

	if update.IsEmpty() {
		err := fmt.Errorf("%w: empty profile update", ErrInvalidInput)
		recordError(span, err)
		return coaching.Profile{}, err
	}
	if lang := update.ExplanationLanguage; lang != nil &&
		*lang != coaching.ExplanationLanguageIndonesian && *lang != coaching.ExplanationLanguageEnglish {
		err := fmt.Errorf("%w: unknown explanation language %q", ErrInvalidInput, *lang)
		recordError(span, err)
		return coaching.Profile{}, err
	}

	body, err := toProfileUpdateBody(update)
	if err != nil {
		recordError(span, err)
		return coaching.Profile{}, fmt.Errorf("failed to convert profile update: %w", err)
	}

	req, err := c.newJSONRequest(ctx, http.MethodPatch, "/user/profile", body)
	if err != nil {
		recordError(span, err)
		return coaching.Profile{}, err
	}

	return c.doProfile(span, "update profile", req)
}

func (c *Client) doProfile(span trace.Span, op string, req *http.Request) (coaching.Profile, error) {
	var body profileBody
	if err := c.do(span, op, req, &body); err != nil {
		return coaching.Profile{}, err
	}

	profile, err := toProfile(body)
	if err != nil {
		err = &TransportError{Op: op, Cause: CauseMalformedResponse, Err: err}
		recordError(span, err)
		return coaching.Profile{}, err
	}
	return profile, nil
}

func (c *Client) ListLessons(ctx context.Context) ([]coaching.Lesson, error) {
	ctx, span := tracer.Start(ctx, "list lessons")
	defer span.End()

	req, err := c.newJSONRequest(ctx, http.MethodGet, "/lessons", nil)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	var bodies []lessonBody
	if err := c.do(span, "list lessons", req, &bodies); err != nil {
		return nil, err
	}

	lessons, err := toLessons(bodies)
	if err != nil {
		err = &TransportError{Op: "list lessons", Cause: CauseMalformedResponse, Err: err}
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("response.lessons", len(lessons)))
	return lessons, nil
}

func (c *Client) FetchLesson(ctx context.Context, id string) (coaching.Lesson, error) {
	ctx, span := tracer.Start(ctx, "fetch lesson")
	defer span.End()
	span.SetAttributes(attribute.String("lesson.id", id))

	if strings.TrimSpace(id) == "" {
		err := fmt.Errorf("%w: empty lesson id", ErrInvalidInput)
		recordError(span, err)
		return coaching.Lesson{}, err
	}

	req, err := c.newJSONRequest(ctx, http.MethodGet, "/lessons/"+url.PathEscape(id), nil)
	if err != nil {
		recordError(span, err)
		return coaching.Lesson{}, err
	}

	var body lessonBody
	if err := c.do(span, "fetch lesson", req, &body); err != nil {
		return coaching.Lesson{}, err
	}

	lessons, err := toLessons([]lessonBody{body})
	if err != nil {
		err = &TransportError{Op: "fetch lesson", Cause: CauseMalformedResponse, Err: err}
		recordError(span, err)
		return coaching.Lesson{}, err
	}
	return lessons[0], nil
}

// AnalyzePronunciation scores a spoken word. Without a recording the
// backend analyzes the word alone.
func (c *Client) AnalyzePronunciation(ctx context.Context, word string, recording *audio.Payload) ([]coaching.PronunciationResult, error) {
	ctx, span := tracer.Start(ctx, "analyze pronunciation")
	defer span.End()
	span.SetAttributes(
		attribute.String("pronunciation.word", word),
		attribute.Bool("pronunciation.voice", recording != nil),
	)

	if strings.TrimSpace(word) == "" {
		err := fmt.Errorf("%w: empty word", ErrInvalidInput)
		recordError(span, err)
		return nil, err
	}

	var (
		req *http.Request
		err error
	)
	if recording != nil {
		if err := validateAudio(*recording, c.minAudioBytes); err != nil {
			recordError(span, err)
			return nil, err
		}
		req, err = c.newMultipartRequest(ctx, "/pronunciation/analyze/audio", *recording, map[string]string{"word": word})
	} else {
		req, err = c.newJSONRequest(ctx, http.MethodPost, "/pronunciation/analyze", analyzeRequestBody{Word: word})
	}
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	var bodies []pronunciationResultBody
	if err := c.do(span, "analyze pronunciation", req, &bodies); err != nil {
		return nil, err
	}

	results, err := toPronunciationResults(bodies)
	if err != nil {
		err = &TransportError{Op: "analyze pronunciation", Cause: CauseMalformedResponse, Err: err}
		recordError(span, err)
		return nil, err
	}
	if len(results) > 0 {
		span.SetAttributes(attribute.Int("response.score", results[0].Score))
	}
	return results, nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		requestBodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error marshalling JSON: %w", err)
		}
		reader = bytes.NewReader(requestBodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("error creating HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) newMultipartRequest(ctx context.Context, path string, payload audio.Payload, fields map[string]string) (*http.Request, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="audio"; filename="%s"`, payload.Format.Filename()))
	header.Set("Content-Type", payload.Format.MIMEType())
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("error creating audio part: %w", err)
	}
	if _, err := part.Write(payload.Data); err != nil {
		return nil, fmt.Errorf("error writing audio part: %w", err)
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("error writing %s field: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("error closing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return nil, fmt.Errorf("error creating HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req, nil
}

// do sends req and decodes a successful JSON response into out. Every
// failure is returned as a *TransportError.
func (c *Client) do(span trace.Span, op string, req *http.Request, out any) error {
	span.SetAttributes(attribute.String("request.url", req.URL.String()))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	requestDuration.Record(req.Context(), time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("operation", op)))
	if err != nil {
		err = &TransportError{Op: op, Cause: CauseNetwork, Err: err}
		recordError(span, err)
		logger.WarnContext(req.Context(), "backend request failed", "operation", op, "error", err)
		return err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		var detail error
		if msg := strings.TrimSpace(string(errorBody)); msg != "" {
			detail = errors.New(msg)
		}
		err := &TransportError{Op: op, Cause: CauseServer, StatusCode: resp.StatusCode, Err: detail}
		recordError(span, err)
		logger.WarnContext(req.Context(), "backend returned an error", "operation", op, "status", resp.StatusCode)
		return err
	}

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		err = &TransportError{Op: op, Cause: CauseNetwork, Err: fmt.Errorf("error reading response: %w", err)}
		recordError(span, err)
		return err
	}
	if err := json.Unmarshal(responseBody, out); err != nil {
		err = &TransportError{Op: op, Cause: CauseMalformedResponse, Err: fmt.Errorf("error unmarshalling JSON: %w", err)}
		recordError(span, err)
		return err
	}
	return nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
