// Package quiz runs a timed practice quiz: each question gets its own
// countdown, the quiz moves on by itself after an answer or a timeout, and
// a separate counter tracks the total time taken.
//
// Like the study timer, Quiz never schedules anything itself. Operations
// return Effects and every scheduled callback carries an epoch; callbacks
// from a superseded question are ignored.
package quiz

import (
	"errors"
	"time"
)

// Defaults for Config.
const (
	DefaultQuestionSeconds = 20
	DefaultAdvanceDelay    = 500 * time.Millisecond
)

// ErrInvalidOption is returned by Select for an option index outside the
// current question's options.
var ErrInvalidOption = errors.New("option out of range")

// Question is one multiple-choice or true/false question.
type Question struct {
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation,omitempty"`
}

// Answer is the outcome of one question. Selected is nil when time ran out.
type Answer struct {
	QuestionIndex int  `json:"questionIndex"`
	Selected      *int `json:"selectedOptionIndex"`
	CorrectIndex  int  `json:"correctOptionIndex"`
	Correct       bool `json:"isCorrect"`
	TimedOut      bool `json:"timedOut"`
}

// QuestionState is the state of the current question.
type QuestionState int

const (
	Unanswered QuestionState = iota
	Answered
	TimedOut
)

func (s QuestionState) String() string {
	switch s {
	case Unanswered:
		return "unanswered"
	case Answered:
		return "answered"
	case TimedOut:
		return "timed out"
	}
	return "unknown"
}

// Status is the state of the whole quiz.
type Status int

const (
	Ready Status = iota
	InProgress
	Finished
	Stopped
)

// Config tunes the countdowns.
type Config struct {
	QuestionSeconds int
	AdvanceDelay    time.Duration
}

// Result is the final tally of a completed quiz.
type Result struct {
	Answers        []Answer
	Score          int
	Total          int
	ElapsedSeconds int
}

// Accuracy is the fraction of correct answers in [0, 1].
func (r Result) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.Total)
}

// Perfect reports whether every question was answered correctly.
func (r Result) Perfect() bool {
	return r.Total > 0 && r.Score == r.Total
}

// Quiz is the countdown state machine for one practice run. It is not safe
// for concurrent use.
type Quiz struct {
	cfg       Config
	questions []Question

	status    Status
	current   int
	state     QuestionState
	remaining int
	elapsed   int
	answers   []Answer

	epoch        uint64
	elapsedEpoch uint64
}

// New creates a quiz over qs. Nothing runs until Start.
func New(qs []Question, cfg Config) *Quiz {
	if cfg.QuestionSeconds <= 0 {
		cfg.QuestionSeconds = DefaultQuestionSeconds
	}
	if cfg.AdvanceDelay <= 0 {
		cfg.AdvanceDelay = DefaultAdvanceDelay
	}
	return &Quiz{
		cfg:       cfg,
		questions: qs,
		remaining: cfg.QuestionSeconds,
		answers:   make([]Answer, 0, len(qs)),
	}
}

func (q *Quiz) Status() Status               { return q.status }
func (q *Quiz) Current() int                 { return q.current }
func (q *Quiz) Total() int                   { return len(q.questions) }
func (q *Quiz) QuestionState() QuestionState { return q.state }
func (q *Quiz) Remaining() int               { return q.remaining }
func (q *Quiz) Elapsed() int                 { return q.elapsed }
func (q *Quiz) QuestionSeconds() int         { return q.cfg.QuestionSeconds }

// Epoch is the epoch of the current question's callbacks.
func (q *Quiz) Epoch() uint64 { return q.epoch }

// Question returns the current question.
func (q *Quiz) Question() Question {
	if q.current >= len(q.questions) {
		return Question{}
	}
	return q.questions[q.current]
}

// LastAnswer returns the answer recorded for the current question, if any.
func (q *Quiz) LastAnswer() (Answer, bool) {
	if len(q.answers) == 0 || q.answers[len(q.answers)-1].QuestionIndex != q.current {
		return Answer{}, false
	}
	return q.answers[len(q.answers)-1], true
}

// Score counts correct answers so far.
func (q *Quiz) Score() int {
	n := 0
	for _, a := range q.answers {
		if a.Correct {
			n++
		}
	}
	return n
}

func (q *Quiz) Result() Result {
	return Result{
		Answers:        append([]Answer(nil), q.answers...),
		Score:          q.Score(),
		Total:          len(q.questions),
		ElapsedSeconds: q.elapsed,
	}
}

// Start begins the first countdown and the elapsed counter.
func (q *Quiz) Start() []Effect {
	if q.status != Ready {
		return nil
	}
	q.status = InProgress
	q.epoch++
	q.elapsedEpoch++
	if len(q.questions) == 0 {
		return q.complete()
	}
	return []Effect{
		ScheduleTick{Epoch: q.epoch, After: time.Second},
		ScheduleElapsed{Epoch: q.elapsedEpoch, After: time.Second},
	}
}

// Select answers the current question. It is a no-op once the question has
// an answer or has timed out.
func (q *Quiz) Select(option int) ([]Effect, error) {
	if q.status != InProgress || q.state != Unanswered {
		return nil, nil
	}
	qs := q.questions[q.current]
	if option < 0 || option >= len(qs.Options) {
		return nil, ErrInvalidOption
	}

	sel := option
	q.answers = append(q.answers, Answer{
		QuestionIndex: q.current,
		Selected:      &sel,
		CorrectIndex:  qs.CorrectIndex,
		Correct:       option == qs.CorrectIndex,
	})
	q.state = Answered
	q.epoch++
	return q.finishQuestion(), nil
}

// Tick advances the current question's countdown by one second.
func (q *Quiz) Tick(epoch uint64) []Effect {
	if epoch != q.epoch || q.status != InProgress || q.state != Unanswered {
		return nil
	}
	if q.remaining > 0 {
		q.remaining--
	}
	if q.remaining > 0 {
		return []Effect{ScheduleTick{Epoch: q.epoch, After: time.Second}}
	}

	q.answers = append(q.answers, Answer{
		QuestionIndex: q.current,
		CorrectIndex:  q.questions[q.current].CorrectIndex,
		TimedOut:      true,
	})
	q.state = TimedOut
	q.epoch++
	return q.finishQuestion()
}

// Advance moves to the next question after the post-answer delay.
func (q *Quiz) Advance(epoch uint64) []Effect {
	if epoch != q.epoch || q.status != InProgress || q.state == Unanswered {
		return nil
	}
	q.current++
	q.state = Unanswered
	q.remaining = q.cfg.QuestionSeconds
	q.epoch++
	return []Effect{ScheduleTick{Epoch: q.epoch, After: time.Second}}
}

// TickElapsed advances the total elapsed counter.
func (q *Quiz) TickElapsed(epoch uint64) []Effect {
	if epoch != q.elapsedEpoch || q.status != InProgress {
		return nil
	}
	q.elapsed++
	return []Effect{ScheduleElapsed{Epoch: q.elapsedEpoch, After: time.Second}}
}

// Stop abandons the quiz and cancels every pending callback.
func (q *Quiz) Stop() {
	if q.status == Finished {
		return
	}
	q.status = Stopped
	q.epoch++
	q.elapsedEpoch++
}

func (q *Quiz) finishQuestion() []Effect {
	if q.current == len(q.questions)-1 {
		return q.complete()
	}
	return []Effect{ScheduleAdvance{Epoch: q.epoch, After: q.cfg.AdvanceDelay}}
}

func (q *Quiz) complete() []Effect {
	q.status = Finished
	q.epoch++
	q.elapsedEpoch++
	return []Effect{Completed{Result: q.Result()}}
}
