package story

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jwebster45206/story-graph/pkg/dynvec"
)

const (
	openMarker  = "<<<"
	closeMarker = ">>>"
	separator   = "***"
	tagWon      = "WON"
	tagFailed   = "FAILED"

	// choiceLinePrefix is the number of leading characters ("+ ", "- ", ...)
	// skipped on every choice line before the target identifier.
	choiceLinePrefix = 2
)

// Option configures Parse.
type Option func(*parser)

// WithLimits overrides the text and choice limits. Zero fields keep their defaults.
func WithLimits(l Limits) Option {
	return func(p *parser) {
		p.limits = l.normalize()
	}
}

// WithLogger sends parse diagnostics to logger at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(p *parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithMaxRecords caps how many scenes and nodes the story may hold. A story
// with more records fails with dynvec.ErrResourceExhausted.
func WithMaxRecords(n int) Option {
	return func(p *parser) {
		p.maxRecords = n
	}
}

type parser struct {
	in         *bufio.Reader
	limits     Limits
	logger     *slog.Logger
	maxRecords int
	line       int
}

// record is one parsed block of input before it becomes a Scene and Node.
type record struct {
	text    string
	class   Classification
	labels  []string
	targets []int
}

// Parse reads a story from r and builds its graph. If r is a *bufio.Reader
// it is used directly, so whatever follows the story stays readable.
//
// Construction is all or nothing: on error every scene and node built so
// far is released and no Story is returned.
func Parse(r io.Reader, opts ...Option) (*Story, error) {
	p := &parser{
		limits: DefaultLimits(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if br, ok := r.(*bufio.Reader); ok {
		p.in = br
	} else {
		p.in = bufio.NewReader(r)
	}
	for _, opt := range opts {
		opt(p)
	}

	st, err := p.parse()
	if err != nil {
		p.logger.Debug("Story construction failed", "line", p.line, "error", err)
		return nil, err
	}
	p.logger.Debug("Story constructed", "nodes", st.Len(), "lines", p.line)
	return st, nil
}

func (p *parser) parse() (*Story, error) {
	n, err := p.readCount()
	if err != nil {
		return nil, err
	}

	b := newBuilder(p.limits, p.maxRecords)
	for i := 0; i < n; i++ {
		rec, err := p.readRecord()
		if err == nil {
			err = b.add(rec)
		}
		if err != nil {
			b.abort()
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}

	st, err := b.resolve()
	if err != nil {
		b.abort()
		return nil, err
	}
	return st, nil
}

// readLine returns the next line with a trailing "\n" (CRLF is folded to "\n").
// The final line may lack the newline. End of input is reported as
// ErrMalformed wrapping io.ErrUnexpectedEOF.
func (p *parser) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read line %d: %w", p.line+1, err)
		}
		if line == "" {
			return "", fmt.Errorf("%w: %w", ErrMalformed, io.ErrUnexpectedEOF)
		}
	}
	p.line++
	if strings.HasSuffix(line, "\r\n") {
		line = line[:len(line)-2] + "\n"
	}
	return line, nil
}

func (p *parser) readCount() (int, error) {
	for {
		line, err := p.readLine()
		if err != nil {
			return 0, fmt.Errorf("record count: %w", err)
		}
		field := strings.TrimSpace(line)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("record count %q: %w", field, ErrMalformed)
		}
		return n, nil
	}
}

func (p *parser) readRecord() (record, error) {
	text, tag, err := p.readBlock()
	if err != nil {
		return record{}, err
	}
	if tag == "" {
		// The tag sits on its own line after the closing marker.
		if tag, err = p.readLine(); err != nil {
			return record{}, fmt.Errorf("classification: %w", err)
		}
	}

	class, count, err := p.parseTag(tag)
	if err != nil {
		return record{}, err
	}
	rec := record{text: text, class: class}
	if class != Ongoing {
		return rec, nil
	}

	if err := p.readSeparator(); err != nil {
		return record{}, err
	}
	rec.labels = make([]string, 0, count)
	rec.targets = make([]int, 0, count)
	for j := 0; j < count; j++ {
		label, target, err := p.readChoice()
		if err != nil {
			return record{}, fmt.Errorf("choice %d: %w", j, err)
		}
		rec.labels = append(rec.labels, label)
		rec.targets = append(rec.targets, target)
	}
	if err := p.readSeparator(); err != nil {
		return record{}, err
	}
	return rec, nil
}

// readBlock collects the description up to the closing marker. When a tag
// starting with '<' trails the marker on the same line it is returned too;
// otherwise tag is empty and the caller reads it from the next line.
func (p *parser) readBlock() (text, tag string, err error) {
	var buf strings.Builder
	first := true
	for {
		line, err := p.readLine()
		if err != nil {
			return "", "", fmt.Errorf("description: %w", err)
		}
		if first {
			if strings.TrimSpace(line) == "" {
				continue
			}
			first = false
			if rest, ok := strings.CutPrefix(strings.TrimLeft(line, " \t"), openMarker); ok {
				line = rest
				if strings.TrimSpace(line) == "" {
					line = ""
				}
			}
		}

		before, after, found := strings.Cut(line, closeMarker)
		buf.WriteString(before)
		if buf.Len() > p.limits.MaxText {
			return "", "", fmt.Errorf("description over %d bytes: %w", p.limits.MaxText-1, ErrTextTooLong)
		}
		if !found {
			continue
		}

		text = strings.TrimSuffix(buf.String(), "\n")
		if len(text) > p.limits.MaxText-1 {
			return "", "", fmt.Errorf("description of %d bytes over %d: %w", len(text), p.limits.MaxText-1, ErrTextTooLong)
		}
		after = strings.TrimLeft(after, " \t")
		if strings.HasPrefix(after, "<") {
			tag = after
		}
		return text, tag, nil
	}
}

// parseTag reads a classification tag: anything containing WON or FAILED,
// or "<N>" for an ongoing scene with N choices.
func (p *parser) parseTag(tag string) (Classification, int, error) {
	tag = strings.TrimSpace(tag)
	switch {
	case strings.Contains(tag, tagWon):
		return Won, 0, nil
	case strings.Contains(tag, tagFailed):
		return Failed, 0, nil
	}

	rest, ok := strings.CutPrefix(tag, "<")
	if !ok {
		return 0, 0, fmt.Errorf("classification tag %q: %w", tag, ErrMalformed)
	}
	n, _, ok := leadingInt(rest)
	if !ok {
		return 0, 0, fmt.Errorf("classification tag %q: %w", tag, ErrMalformed)
	}
	if n <= 0 {
		return 0, 0, fmt.Errorf("choice count %d: %w", n, ErrMalformed)
	}
	if n > p.limits.MaxChoices {
		return 0, 0, fmt.Errorf("choice count %d over %d: %w", n, p.limits.MaxChoices, ErrTooManyChoices)
	}
	return Ongoing, n, nil
}

func (p *parser) readSeparator() error {
	line, err := p.readLine()
	if err != nil {
		return fmt.Errorf("separator: %w", err)
	}
	if strings.TrimSpace(line) != separator {
		p.logger.Debug("Unexpected separator line", "line", p.line, "content", strings.TrimSpace(line))
	}
	return nil
}

func (p *parser) readChoice() (string, int, error) {
	line, err := p.readLine()
	if err != nil {
		return "", 0, err
	}
	line = strings.TrimSuffix(line, "\n")
	if len(line) < choiceLinePrefix {
		return "", 0, fmt.Errorf("choice line %d too short: %w", p.line, ErrMalformed)
	}
	label := line[choiceLinePrefix:]
	target, ok := parseTarget(label)
	if !ok {
		return "", 0, fmt.Errorf("choice line %d %q has no target: %w", p.line, label, ErrMalformed)
	}
	return label, target, nil
}

// leadingInt parses an optionally signed decimal integer at the start of s
// and returns what follows it.
func leadingInt(s string) (int, string, bool) {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, s, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, s, false
	}
	return n, s[end:], true
}

// builder owns the scenes and nodes of a story under construction.
type builder struct {
	limits  Limits
	scenes  *dynvec.Vec[*Scene]
	nodes   *dynvec.Vec[*Node]
	targets [][]int
	live    int // scenes plus nodes created and not yet released
}

func newBuilder(limits Limits, maxRecords int) *builder {
	var opts []dynvec.Option
	if maxRecords > 0 {
		opts = append(opts, dynvec.WithMaxCapacity(maxRecords))
	}
	return &builder{
		limits: limits,
		scenes: dynvec.New[*Scene](opts...),
		nodes:  dynvec.New[*Node](opts...),
	}
}

func (b *builder) add(rec record) error {
	scene, err := newScene(rec.text, rec.class, rec.labels, b.limits.MaxChoices)
	if err != nil {
		return err
	}
	b.live++

	node, err := newNode(scene, len(rec.labels), b.limits.MaxChoices)
	if err != nil {
		b.releaseScene(scene)
		return err
	}
	b.live++

	if err := b.scenes.Push(scene); err != nil {
		b.releaseNode(node)
		b.releaseScene(scene)
		return fmt.Errorf("store scene: %w", err)
	}
	if err := b.nodes.Push(node); err != nil {
		// The scene is already owned by b.scenes and goes with abort.
		b.releaseNode(node)
		return fmt.Errorf("store node: %w", err)
	}
	b.targets = append(b.targets, rec.targets)
	return nil
}

// resolve wires every edge once all nodes exist, so choices may point
// forwards, backwards or at their own record.
func (b *builder) resolve() (*Story, error) {
	n := b.nodes.Len()
	for i := 0; i < n; i++ {
		node, err := b.nodes.Get(i)
		if err != nil {
			return nil, err
		}
		for j, target := range b.targets[i] {
			if target < 0 || target >= n {
				return nil, fmt.Errorf("record %d choice %d points at %d of %d: %w", i, j, target, n, ErrUnresolvedTarget)
			}
			if err := node.SetEdge(j, target); err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
		}
	}
	b.targets = nil
	return newStory(b.scenes, b.nodes), nil
}

// abort releases everything built so far.
func (b *builder) abort() {
	b.scenes.Map(func(sc **Scene) { b.releaseScene(*sc) })
	b.nodes.Map(func(n **Node) { b.releaseNode(*n) })
	b.scenes.Free()
	b.nodes.Free()
	b.targets = nil
}

func (b *builder) releaseScene(s *Scene) {
	if s != nil && !s.freed {
		s.Release()
		b.live--
	}
}

func (b *builder) releaseNode(n *Node) {
	if n != nil && !n.freed {
		n.release()
		b.live--
	}
}
