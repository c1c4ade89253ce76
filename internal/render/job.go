package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/youruser/cardforge/internal/cards"
	imagepkg "github.com/youruser/cardforge/internal/image"
)

// State is a render job's position in its pipeline.
type State int

const (
	Idle State = iota
	Preparing
	Composing
	Rasterizing
	Done
	Failed
)

var stateNames = [...]string{"idle", "preparing", "composing", "rasterizing", "done", "failed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Source supplies the records a job renders from.
type Source interface {
	Card(ctx context.Context, id string) (cards.Card, error)
	Artwork(ctx context.Context, id string) ([]byte, error)
	Keywords(ctx context.Context, setID string) ([]cards.Keyword, error)
}

var ErrJobStarted = errors.New("render job already started")

// Job renders one stored card at a pixel ratio. A missing card or artwork
// fails the job; missing catalog assets only degrade the result.
type Job struct {
	engine *Engine
	src    Source
	cardID string
	ratio  float64

	// OnState, when set, is called on every transition.
	OnState func(State)

	mu    sync.Mutex
	state State
	err   error
	scene *Scene
}

func (e *Engine) NewJob(src Source, cardID string, ratio float64) *Job {
	return &Job{engine: e, src: src, cardID: cardID, ratio: ratio}
}

func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

func (j *Job) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Scene is the instruction list built by the job, once it has composed.
func (j *Job) Scene() *Scene {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.scene
}

func (j *Job) set(s State) {
	j.mu.Lock()
	j.state = s
	j.mu.Unlock()
	if j.OnState != nil {
		j.OnState(s)
	}
}

func (j *Job) fail(err error) (image.Image, error) {
	j.mu.Lock()
	j.err = err
	j.mu.Unlock()
	j.set(Failed)
	j.engine.Log.Error("render failed", "card", j.cardID, "error", err)
	return nil, err
}

// Run drives the job to Done or Failed. A job runs once.
func (j *Job) Run(ctx context.Context) (image.Image, error) {
	j.mu.Lock()
	if j.state != Idle {
		j.mu.Unlock()
		return nil, ErrJobStarted
	}
	j.state = Preparing
	j.mu.Unlock()
	if j.OnState != nil {
		j.OnState(Preparing)
	}

	if j.ratio <= 0 {
		return j.fail(fmt.Errorf("invalid pixel ratio %v", j.ratio))
	}
	card, art, kws, err := j.engine.load(ctx, j.src, j.cardID)
	if err != nil {
		return j.fail(err)
	}

	p, err := j.engine.Prepare(ctx, card, art, kws)
	if err != nil {
		return j.fail(err)
	}

	j.set(Composing)
	scene := j.engine.Compose(p)
	j.mu.Lock()
	j.scene = scene
	j.mu.Unlock()

	j.set(Rasterizing)
	if err := ctx.Err(); err != nil {
		return j.fail(err)
	}
	img := Rasterize(scene, j.ratio, j.engine.Fonts)

	j.set(Done)
	return img, nil
}

// load fetches a card, its decoded artwork and its set's keywords. A
// keyword lookup failure is logged and rendering proceeds without reminder
// text.
func (e *Engine) load(ctx context.Context, src Source, cardID string) (cards.Card, image.Image, []cards.Keyword, error) {
	card, err := src.Card(ctx, cardID)
	if err != nil {
		return cards.Card{}, nil, nil, fmt.Errorf("card %s: %w", cardID, err)
	}

	var art image.Image
	if card.ArtworkImageID != "" {
		data, err := src.Artwork(ctx, card.ArtworkImageID)
		if err != nil {
			return cards.Card{}, nil, nil, fmt.Errorf("artwork %s: %w", card.ArtworkImageID, err)
		}
		if art, err = imagepkg.DecodeArtwork(data); err != nil {
			return cards.Card{}, nil, nil, fmt.Errorf("artwork %s: %w", card.ArtworkImageID, err)
		}
	}

	kws, err := src.Keywords(ctx, card.SetID)
	if err != nil {
		e.Log.Warn("keywords unavailable, reminder text not expanded", "set", card.SetID, "error", err)
		kws = nil
	}
	return card, art, kws, nil
}

// SceneFor loads a stored card and builds its scene without rasterizing.
func (e *Engine) SceneFor(ctx context.Context, src Source, cardID string) (*Scene, error) {
	card, art, kws, err := e.load(ctx, src, cardID)
	if err != nil {
		return nil, err
	}
	return e.Scene(ctx, card, art, kws)
}
