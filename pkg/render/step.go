package render

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-formwalk/pkg/flow"
	"github.com/goliatone/go-formwalk/pkg/question"
	"github.com/goliatone/go-formwalk/pkg/walker"
)

// Choice is one selectable option of an emoji or scale question.
type Choice struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

// QuestionView is the render-ready form of the current question.
type QuestionView struct {
	ID               string        `json:"id"`
	Prompt           string        `json:"prompt"`
	Type             question.Type `json:"type"`
	Choices          []Choice      `json:"choices,omitempty"`
	Answer           string        `json:"answer,omitempty"`
	AllowExtra       bool          `json:"allowExtra,omitempty"`
	ExtraKey         string        `json:"extraKey,omitempty"`
	Extra            string        `json:"extra,omitempty"`
	ExtraPrompt      string        `json:"extraPrompt,omitempty"`
	ExtraPlaceholder string        `json:"extraPlaceholder,omitempty"`
}

// Step is the view model every renderer consumes: one screen of a check-in.
type Step struct {
	Stage       flow.Stage     `json:"stage"`
	Title       string         `json:"title"`
	Prompt      string         `json:"prompt,omitempty"`
	Hint        string         `json:"hint,omitempty"`
	Intro       string         `json:"intro,omitempty"`
	Index       int            `json:"index"`
	Total       int            `json:"total"`
	Question    *QuestionView  `json:"question,omitempty"`
	CanSubmit   bool           `json:"canSubmit"`
	IsLast      bool           `json:"isLast"`
	SubmitLabel string         `json:"submitLabel,omitempty"`
	Answers     walker.Answers `json:"answers,omitempty"`
}

// NewStep snapshots the flow into a Step.
func NewStep(f *flow.Flow) Step {
	step := Step{
		Stage:       f.Stage(),
		Title:       flow.Title,
		Total:       len(f.Questions()),
		SubmitLabel: f.SubmitLabel(),
	}

	switch step.Stage {
	case flow.StageGreeting:
		step.Prompt = flow.GreetingPrompt
		step.Hint = flow.GreetingHint
		step.CanSubmit = false
	case flow.StageQuestions:
		w := f.Walker()
		step.Intro = flow.QuestionsIntro
		step.Index = w.Index()
		step.IsLast = w.IsLast()
		step.CanSubmit = w.CanSubmit()
		if q, ok := w.Current(); ok {
			view := newQuestionView(q, w.Answers())
			step.Question = &view
			step.Prompt = q.Prompt
		}
	case flow.StageFinished:
		step.Index = step.Total
		step.Prompt = flow.ThanksTitle
		step.Hint = flow.ThanksBody
		step.Answers = f.Answers()
	}
	return step
}

// Position is the 1-based progress marker, e.g. "2/3". Empty outside the
// question stage.
func (s Step) Position() string {
	if s.Stage != flow.StageQuestions || s.Total == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", s.Index+1, s.Total)
}

func newQuestionView(q question.Question, answers walker.Answers) QuestionView {
	view := QuestionView{
		ID:         q.ID,
		Prompt:     q.Prompt,
		Type:       q.Type,
		AllowExtra: q.AllowExtra,
	}
	if v, ok := answers[q.ID]; ok {
		view.Answer = fmt.Sprint(v)
	}
	switch q.Type {
	case question.TypeEmoji:
		for _, c := range q.Choices {
			view.Choices = append(view.Choices, Choice{Value: c, Label: c, Selected: c == view.Answer})
		}
	case question.TypeScale:
		for _, n := range q.ScaleValues() {
			value := strconv.Itoa(n)
			view.Choices = append(view.Choices, Choice{Value: value, Label: q.ScaleLabel(n), Selected: value == view.Answer})
		}
	}
	if q.AllowExtra {
		view.ExtraKey = q.ExtraKey()
		view.ExtraPrompt = flow.ExtraPrompt
		view.ExtraPlaceholder = flow.ExtraPlaceholder
		if v, ok := answers[q.ExtraKey()].(string); ok {
			view.Extra = v
		}
	}
	return view
}
