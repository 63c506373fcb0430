package topic

import "fmt"

// DuplicateTopicError indicates a topic was registered twice with
// conflicting data.
type DuplicateTopicError struct {
	Name string
}

func (e *DuplicateTopicError) Error() string {
	return fmt.Sprintf("topic %q is already registered with different data", e.Name)
}

// UnknownTopicError indicates a reference to a topic name that was never
// registered.
type UnknownTopicError struct {
	Name string
}

func (e *UnknownTopicError) Error() string {
	return fmt.Sprintf("unknown topic %q", e.Name)
}

// CyclicDependencyError indicates the dependency graph contains a cycle.
type CyclicDependencyError struct {
	Name string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cyclic dependency detected involving topic %q", e.Name)
}
