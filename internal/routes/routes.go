// Package routes defines the canonical client paths and the navigation seam.
package routes

import (
	"sync"

	"github.com/jonathan/talentfit/internal/types"
)

// Canonical paths.
const (
	Login         = "/login"
	Root          = "/"
	AdminJDs      = "/admin/jds"
	Dashboard     = "/dashboard"
	UploadResume  = "/candidates/upload-resume"
	UploadJD      = "/jobs/upload-jd"
	Matching      = "/matching"
	SkillGap      = "/skill-gap"
	Assessment    = "/assessments/create"
	Interview     = "/interviews/questions"
	InterviewDone = "/interviews/results"
)

// LandingFor returns the route a role lands on after login or when it hits a forbidden route.
func LandingFor(role types.Role) string {
	if role == types.RoleAdmin {
		return AdminJDs
	}
	return Dashboard
}

// NavItem is one entry of the workflow navigation bar.
type NavItem struct {
	Name string
	Path string
	Step int
}

// Sequence is the workflow navigation in display order.
var Sequence = []NavItem{
	{Name: "Dashboard", Path: Dashboard, Step: 0},
	{Name: "Upload Resume", Path: UploadResume, Step: 1},
	{Name: "Upload Job Description", Path: UploadJD, Step: 2},
	{Name: "Matching", Path: Matching, Step: 3},
	{Name: "Skill Gap Analysis", Path: SkillGap, Step: 4},
	{Name: "Create Assessment", Path: Assessment, Step: 5},
	{Name: "Interview Questions", Path: Interview, Step: 6},
}

// StepOf returns the navigation step of path, or 0 when path is not in the sequence.
func StepOf(path string) int {
	for _, item := range Sequence {
		if item.Path == path {
			return item.Step
		}
	}
	return 0
}

// Navigator moves the visitor to another route.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

// Navigate calls f(path).
func (f NavigatorFunc) Navigate(path string) {
	f(path)
}

// Recorder is a Navigator that remembers every navigation.
type Recorder struct {
	mu    sync.Mutex
	paths []string
}

// Navigate records path.
func (r *Recorder) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

// Last returns the most recent navigation, or "".
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.paths) == 0 {
		return ""
	}
	return r.paths[len(r.paths)-1]
}

// Paths returns every recorded navigation in order.
func (r *Recorder) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.paths))
	copy(out, r.paths)
	return out
}
