package poster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrNoPostText is returned when the model produced no usable text.
var ErrNoPostText = errors.New("no post text generated")

const systemPrompt = `You are a sports analytics bot that posts witty, shareable facts to X (formerly Twitter).

Your job:
1. Search for today's most interesting news in the assigned sport
2. Pick one fact that is either hilariously useless OR surprisingly insightful
3. Write a post STRICTLY under 240 characters total (including hashtags). Count carefully — this is a hard limit.
4. End every post with "Uselessness Rating: X/10" where X reflects how useless the fact is
5. Add 1-2 sport-relevant hashtags at the end

Style guide:
- Conversational and punchy, not stuffy
- Mix silly stats with genuine insights across different days
- Emoji are welcome but don't overdo it

Output ONLY the post text. No quotes, no explanation, nothing else.`

// Generator produces post text for a topic prompt.
type Generator interface {
	// Generate runs one generation request and returns the concatenated
	// plain-text segments of the model's output.
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Publisher submits a finished post and returns the platform-assigned id.
type Publisher interface {
	PublishPost(ctx context.Context, text string) (string, error)
}

// Runner runs one poster invocation.
type Runner interface {
	Run(ctx context.Context) (*Result, error)
}

// Result is the outcome of one successful poster invocation.
type Result struct {
	Topic  string
	Post   string
	PostID string
}

// Poster generates and publishes one short post per invocation, varying its
// subject by UTC weekday. Each invocation is independent: no retries, no
// dedup across runs.
type Poster struct {
	generator  Generator
	publisher  Publisher
	now        func() time.Time
	stripEmoji bool
	log        *zap.Logger
}

// New creates a poster with the real clock.
func New(generator Generator, publisher Publisher, stripEmoji bool, log *zap.Logger) *Poster {
	return NewWithClock(generator, publisher, time.Now, stripEmoji, log)
}

// NewWithClock creates a poster with an injected clock for tests.
func NewWithClock(generator Generator, publisher Publisher, now func() time.Time, stripEmoji bool, log *zap.Logger) *Poster {
	return &Poster{
		generator:  generator,
		publisher:  publisher,
		now:        now,
		stripEmoji: stripEmoji,
		log:        log,
	}
}

// Run selects the day's topic, generates the post, shapes it to the platform
// ceiling and publishes it. A generated-but-unpublished post has no side
// effect: failure anywhere simply means nothing was posted.
func (p *Poster) Run(ctx context.Context) (*Result, error) {
	topic := TopicForDay(p.now())

	p.log.Info("Starting daily post", zap.String("topic", topic))

	prompt := fmt.Sprintf(
		"Today's sport: %s. Search for the most interesting or absurd news from the past 24 hours and write one X post about it.",
		topic)

	raw, err := p.generator.Generate(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	post := shapePost(raw, p.stripEmoji)
	if post == "" {
		return nil, ErrNoPostText
	}

	p.log.Info("Publishing post", zap.Int("length", len([]rune(post))))

	postID, err := p.publisher.PublishPost(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("publish failed: %w", err)
	}

	p.log.Info("Post published",
		zap.String("topic", topic),
		zap.String("post_id", postID))

	return &Result{
		Topic:  topic,
		Post:   post,
		PostID: postID,
	}, nil
}
