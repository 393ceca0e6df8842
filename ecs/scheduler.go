package ecs

// System updates a world once per tick.
type System interface {
	Update(w *World)
}

// SystemFunc adapts a plain function to System.
type SystemFunc func(w *World)

func (f SystemFunc) Update(w *World) { f(w) }

type step struct {
	name   string
	system System
	guard  func() bool
}

// Scheduler runs named steps in the order they were added. A guarded step is
// skipped on any tick where its guard reports false.
type Scheduler struct {
	steps []step
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) Add(name string, system System) {
	s.AddGuarded(name, system, nil)
}

func (s *Scheduler) AddGuarded(name string, system System, guard func() bool) {
	if system == nil {
		return
	}
	s.steps = append(s.steps, step{name: name, system: system, guard: guard})
}

func (s *Scheduler) Update(w *World) {
	for _, st := range s.steps {
		if st.guard != nil && !st.guard() {
			continue
		}
		st.system.Update(w)
	}
}

// Names returns the step names in run order.
func (s *Scheduler) Names() []string {
	names := make([]string, 0, len(s.steps))
	for _, st := range s.steps {
		names = append(names, st.name)
	}
	return names
}
