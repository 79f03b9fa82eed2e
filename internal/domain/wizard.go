package domain

import (
	"context"
	"fmt"
)

// WizardStep numbers the profile completion wizard pages.
type WizardStep int

const (
	StepPersonalInfo WizardStep = iota + 1
	StepExperience
	StepSkills
	StepLanguages
	StepDocuments
	StepComplete
)

var wizardStepNames = map[WizardStep]string{
	StepPersonalInfo: "personal_info",
	StepExperience:   "experience",
	StepSkills:       "skills",
	StepLanguages:    "languages",
	StepDocuments:    "documents",
	StepComplete:     "complete",
}

func (s WizardStep) Valid() bool {
	return s >= StepPersonalInfo && s <= StepComplete
}

func (s WizardStep) String() string {
	if name, ok := wizardStepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step_%d", int(s))
}

// Next returns the following step; Complete is its own successor.
func (s WizardStep) Next() WizardStep {
	if s >= StepComplete {
		return StepComplete
	}
	return s + 1
}

// Skippable steps accept an explicit "nothing to add" submission.
func (s WizardStep) Skippable() bool {
	return s >= StepExperience && s <= StepDocuments
}

// Route is the API path of the step.
func (s WizardStep) Route() string {
	return fmt.Sprintf("/wizard/steps/%d", int(s))
}

// WizardRedirect is returned instead of a view or result when the caller
// must be sent elsewhere. Nothing has been modified when it is returned.
type WizardRedirect struct {
	Location string
	Reason   string
}

func (r *WizardRedirect) Error() string {
	return "wizard redirect to " + r.Location + ": " + r.Reason
}

type WizardSummary struct {
	Experiences int  `json:"experiences"`
	Skills      int  `json:"skills"`
	Languages   int  `json:"languages"`
	CVPending   bool `json:"cv_pending"`
}

// WizardView is the read-only rendering of a step from persisted state.
type WizardView struct {
	Step        WizardStep          `json:"step"`
	StepName    string              `json:"step_name"`
	TotalSteps  int                 `json:"total_steps"`
	Skippable   bool                `json:"skippable"`
	Profile     *CandidateProfile   `json:"profile,omitempty"`
	Experiences []WorkExperience    `json:"experiences,omitempty"`
	Skills      []CandidateSkill    `json:"skills,omitempty"`
	Languages   []CandidateLanguage `json:"languages,omitempty"`
	Document    *Document           `json:"document,omitempty"`
	Summary     *WizardSummary      `json:"summary,omitempty"`
	NextRoute   string              `json:"next_route,omitempty"`
}

// WizardSubmission carries the payload for exactly one step; which field is
// read depends on the step.
type WizardSubmission struct {
	Skip         bool               `json:"skip"`
	PersonalInfo *PersonalInfoInput `json:"personal_info,omitempty"`
	Experience   *ExperienceInput   `json:"experience,omitempty"`
	Skill        *SkillInput        `json:"skill,omitempty"`
	Language     *LanguageInput     `json:"language,omitempty"`
	Document     *DocumentInput     `json:"document,omitempty"`
}

type WizardResult struct {
	Step     WizardStep `json:"step"`
	NextStep WizardStep `json:"next_step"`
	// Created is false when the submitted item already existed.
	Created   bool   `json:"created"`
	Skipped   bool   `json:"skipped"`
	Message   string `json:"message"`
	NextRoute string `json:"next_route"`
}

type WizardUsecase interface {
	GetStep(ctx context.Context, caller Caller, step WizardStep) (*WizardView, error)
	Submit(ctx context.Context, caller Caller, step WizardStep, submission WizardSubmission) (*WizardResult, error)
}
