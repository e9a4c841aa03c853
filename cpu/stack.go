package cpu

const (
	STACK_LIMIT = 16 // Maximum call depth.
)

// Stack holds return line indexes for call and ret.
type Stack struct {
	Data []int
}

// Push adds a value, failing once STACK_LIMIT values are held.
func (s *Stack) Push(value int) error {
	if s.Full() {
		return ErrStackFull
	}
	s.Data = append(s.Data, value)
	return nil
}

// Pop removes and returns the newest value.
func (s *Stack) Pop() (value int, err error) {
	value, ok := s.Peek()
	if !ok {
		err = ErrStackEmpty
		return
	}
	s.Data = s.Data[:len(s.Data)-1]
	return
}

func (s *Stack) Empty() bool {
	return len(s.Data) == 0
}

func (s *Stack) Full() bool {
	return len(s.Data) == STACK_LIMIT
}

func (s *Stack) Peek() (value int, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[len(s.Data)-1], true
}

func (s *Stack) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}
