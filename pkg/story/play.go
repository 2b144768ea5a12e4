package story

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
)

// Play runs a session: it reads whitespace separated choice ids from r and
// applies them until the story reaches a terminal state. Running out of
// input, or reading something that is not an integer, halts the session in
// StateWaiting.
func Play(ctx context.Context, st *Story, r io.Reader) (State, error) {
	if st == nil {
		return StateFailed, fmt.Errorf("play: %w", ErrInvalidArgument)
	}

	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for !st.State().Terminal() {
		if err := ctx.Err(); err != nil {
			return st.State(), err
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return st.State(), fmt.Errorf("read choice: %w", err)
			}
			return st.Exhaust(), nil
		}
		id, err := strconv.Atoi(scanner.Text())
		if err != nil {
			return st.Exhaust(), nil
		}
		st.ApplyChoice(id)
	}
	return st.State(), nil
}
