package quiz

import (
	"github.com/abhisek/studydesk/internal/achievements"
	"github.com/abhisek/studydesk/internal/materials"
	qz "github.com/abhisek/studydesk/internal/quiz"
)

type materialChosenMsg struct {
	file materials.File
}

type questionsMsg struct {
	gen       uint64
	questions []qz.Question
	err       error
}

type tickMsg struct{ epoch uint64 }

type advanceMsg struct{ epoch uint64 }

type elapsedMsg struct{ epoch uint64 }

type recordedMsg struct {
	awards []achievements.Award
	err    error
}
