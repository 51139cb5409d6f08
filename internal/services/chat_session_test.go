package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"tripchat/internal/models/response_models"
	"tripchat/pkg/utils"
)

// fakeStreamClient replays scripted chunks. With omitDone set the channel
// closes without a terminal chunk, which is how a dropped transport looks to
// the session. A non-nil gate holds the stream open until released.
type fakeStreamClient struct {
	chunks  []response_models.StreamChunk
	openErr error
	gate    chan struct{}

	mu    sync.Mutex
	calls [][]response_models.ChatMessage
}

func (f *fakeStreamClient) StreamChat(ctx context.Context, transcript []response_models.ChatMessage) (<-chan response_models.StreamChunk, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]response_models.ChatMessage(nil), transcript...))
	f.mu.Unlock()

	if f.openErr != nil {
		return nil, f.openErr
	}

	out := make(chan response_models.StreamChunk)
	go func() {
		defer close(out)
		if f.gate != nil {
			select {
			case <-f.gate:
			case <-ctx.Done():
				return
			}
		}
		for _, chunk := range f.chunks {
			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

type fakeRecommender struct {
	enriched []response_models.EnrichedDestination
	gotRefs  []response_models.RecommendedDestinationRef
}

func (f *fakeRecommender) EnrichDestinations(ctx context.Context, refs []response_models.RecommendedDestinationRef) []response_models.EnrichedDestination {
	f.gotRefs = refs
	if f.enriched == nil {
		return []response_models.EnrichedDestination{}
	}
	return f.enriched
}

func textChunks(parts ...string) []response_models.StreamChunk {
	chunks := make([]response_models.StreamChunk, 0, len(parts)+1)
	for _, p := range parts {
		chunks = append(chunks, response_models.StreamChunk{Text: p})
	}
	return append(chunks, response_models.StreamChunk{Done: true})
}

func drainEvents(t *testing.T, events <-chan SessionEvent) []SessionEvent {
	t.Helper()
	collected := []SessionEvent{}
	for ev := range events {
		collected = append(collected, ev)
	}
	return collected
}

func TestChatSession_PlainTurn(t *testing.T) {
	client := &fakeStreamClient{chunks: textChunks("Hello ", "there")}
	session := NewChatSession("s1", client, &fakeRecommender{})

	events, err := session.SendMessage(context.Background(), "hi")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	collected := drainEvents(t, events)

	last := collected[len(collected)-1]
	if !last.Done || last.Recommendation != nil {
		t.Errorf("terminal event = %+v, want done without recommendation", last)
	}

	state := session.State()
	if state.IsStreaming {
		t.Error("session still streaming after terminal event")
	}
	if len(state.Transcript) != 2 {
		t.Fatalf("transcript = %v, want user + assistant", state.Transcript)
	}
	if state.Transcript[0].Role != response_models.RoleUser || state.Transcript[0].Text != "hi" {
		t.Errorf("transcript[0] = %+v", state.Transcript[0])
	}
	if state.Transcript[1].Role != response_models.RoleModel || state.Transcript[1].Text != "Hello there" {
		t.Errorf("transcript[1] = %+v", state.Transcript[1])
	}
	if state.CurrentPartialText != "" {
		t.Errorf("partial text not cleared: %q", state.CurrentPartialText)
	}
}

func TestChatSession_EmptyMessage(t *testing.T) {
	session := NewChatSession("s1", &fakeStreamClient{}, &fakeRecommender{})

	if _, err := session.SendMessage(context.Background(), "   "); !errors.Is(err, utils.ErrInvalidInput) {
		t.Errorf("SendMessage(blank) error = %v, want ErrInvalidInput", err)
	}
}

func TestChatSession_RecommendationTurn(t *testing.T) {
	payload := "Here is your plan.\n\n" + utils.RecommendationMarker + "\n```json\n" +
		`{"destinations":[{"id":"a","reason":"r1"}],"itinerary":"**Day 1:** Visit Hoi An"}` +
		"\n```"
	client := &fakeStreamClient{chunks: textChunks("Here is your plan.\n\n", payload[len("Here is your plan.\n\n"):])}
	recommender := &fakeRecommender{enriched: []response_models.EnrichedDestination{
		makeDest("a", "Hoi An"),
	}}
	session := NewChatSession("s1", client, recommender)

	events, err := session.SendMessage(context.Background(), "plan my trip")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	collected := drainEvents(t, events)

	last := collected[len(collected)-1]
	if !last.Done || last.Recommendation == nil {
		t.Fatalf("terminal event = %+v, want done with recommendation", last)
	}
	if last.Recommendation.Summary != "Here is your plan." {
		t.Errorf("summary = %q, want marker and payload stripped", last.Recommendation.Summary)
	}
	if last.Recommendation.Itinerary != "**Day 1:** Visit Hoi An" {
		t.Errorf("itinerary = %q", last.Recommendation.Itinerary)
	}
	if len(last.Recommendation.Destinations) != 1 || last.Recommendation.Destinations[0].ID != "a" {
		t.Errorf("destinations = %v", last.Recommendation.Destinations)
	}
	if len(recommender.gotRefs) != 1 || recommender.gotRefs[0].Reason != "r1" {
		t.Errorf("enricher received refs %v", recommender.gotRefs)
	}

	state := session.State()
	if state.Transcript[1].Text != "Here is your plan." {
		t.Errorf("assistant message = %q, want stripped display text", state.Transcript[1].Text)
	}
	if state.Recommendation == nil {
		t.Error("recommendation not published to session state")
	}

	cards, err := session.DayCards()
	if err != nil {
		t.Fatalf("DayCards() error = %v", err)
	}
	if len(cards) != 1 || cards[0].Day != 1 {
		t.Errorf("day cards = %v", cards)
	}
}

func TestChatSession_MalformedPayloadShowsRawText(t *testing.T) {
	raw := "Some text\n" + utils.RecommendationMarker + "\n```json\n{broken\n```"
	client := &fakeStreamClient{chunks: textChunks(raw)}
	session := NewChatSession("s1", client, &fakeRecommender{})

	events, err := session.SendMessage(context.Background(), "plan")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	collected := drainEvents(t, events)

	last := collected[len(collected)-1]
	if !last.Done || last.Recommendation != nil {
		t.Errorf("terminal event = %+v, want done without recommendation", last)
	}

	state := session.State()
	if state.Transcript[1].Text != raw {
		t.Errorf("assistant message = %q, want the raw unstripped text", state.Transcript[1].Text)
	}
	if _, err := session.DayCards(); !errors.Is(err, utils.ErrNoRecommendation) {
		t.Errorf("DayCards() error = %v, want ErrNoRecommendation", err)
	}
}

func TestChatSession_OpenFailureRollsBack(t *testing.T) {
	client := &fakeStreamClient{openErr: errors.New("connect refused")}
	session := NewChatSession("s1", client, &fakeRecommender{})

	if _, err := session.SendMessage(context.Background(), "hi"); !errors.Is(err, utils.ErrStreamFailed) {
		t.Fatalf("SendMessage() error = %v, want ErrStreamFailed", err)
	}

	state := session.State()
	if len(state.Transcript) != 0 {
		t.Errorf("transcript = %v, want optimistic user message rolled back", state.Transcript)
	}
	if state.IsStreaming {
		t.Error("session left in streaming state")
	}
	if state.Error == "" {
		t.Error("expected error recorded in session state")
	}
}

func TestChatSession_TransportDropRollsBack(t *testing.T) {
	client := &fakeStreamClient{chunks: []response_models.StreamChunk{{Text: "partial answer"}}}
	session := NewChatSession("s1", client, &fakeRecommender{})

	events, err := session.SendMessage(context.Background(), "hi")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	collected := drainEvents(t, events)

	var sawErr bool
	for _, ev := range collected {
		if ev.Err != nil {
			sawErr = true
		}
		if ev.Done {
			t.Error("got done event from a dropped stream")
		}
	}
	if !sawErr {
		t.Error("expected an error event from the dropped stream")
	}

	state := session.State()
	if len(state.Transcript) != 0 {
		t.Errorf("transcript = %v, want rollback after transport failure", state.Transcript)
	}
	if state.Error == "" {
		t.Error("expected error recorded in session state")
	}
}

func TestChatSession_RejectsConcurrentSend(t *testing.T) {
	gate := make(chan struct{})
	client := &fakeStreamClient{chunks: textChunks("slow reply"), gate: gate}
	session := NewChatSession("s1", client, &fakeRecommender{})

	events, err := session.SendMessage(context.Background(), "first")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	if _, err := session.SendMessage(context.Background(), "second"); !errors.Is(err, utils.ErrStreamInFlight) {
		t.Errorf("concurrent SendMessage() error = %v, want ErrStreamInFlight", err)
	}

	close(gate)
	drainEvents(t, events)

	// The turn is over; the next send goes through.
	events, err = session.SendMessage(context.Background(), "third")
	if err != nil {
		t.Fatalf("SendMessage() after turn error = %v", err)
	}
	drainEvents(t, events)
}

func TestChatSession_AbortWithoutFinalizing(t *testing.T) {
	gate := make(chan struct{})
	client := &fakeStreamClient{
		chunks: textChunks(utils.RecommendationMarker + "\n```json\n{\"destinations\":[]}\n```"),
		gate:   gate,
	}
	session := NewChatSession("s1", client, &fakeRecommender{})

	ctx, cancel := context.WithCancel(context.Background())
	events, err := session.SendMessage(ctx, "plan")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	cancel()
	collected := drainEvents(t, events)

	for _, ev := range collected {
		if ev.Done || ev.Err != nil {
			t.Errorf("aborted turn emitted terminal event %+v", ev)
		}
	}

	state := session.State()
	if len(state.Transcript) != 0 {
		t.Errorf("transcript = %v, want aborted turn rolled back", state.Transcript)
	}
	if state.Error != "" {
		t.Errorf("abort recorded error %q, want none", state.Error)
	}
	if state.Recommendation != nil {
		t.Error("aborted turn must not publish a recommendation")
	}
}

func TestChatSession_SendsFullTranscript(t *testing.T) {
	client := &fakeStreamClient{chunks: textChunks("first reply")}
	session := NewChatSession("s1", client, &fakeRecommender{})

	events, _ := session.SendMessage(context.Background(), "one")
	drainEvents(t, events)

	client.chunks = textChunks("second reply")
	events, _ = session.SendMessage(context.Background(), "two")
	drainEvents(t, events)

	client.mu.Lock()
	defer client.mu.Unlock()
	if len(client.calls) != 2 {
		t.Fatalf("stream opened %d times, want 2", len(client.calls))
	}
	second := client.calls[1]
	if len(second) != 3 {
		t.Fatalf("second call carried %d messages, want user+assistant+user", len(second))
	}
	if second[1].Text != "first reply" || second[2].Text != "two" {
		t.Errorf("second call transcript = %v", second)
	}
}
