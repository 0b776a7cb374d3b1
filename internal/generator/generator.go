package generator

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/reactive/core/stream"
)

// DefaultConcurrency bounds how many inner sequences unordered flattening
// runs at once.
const DefaultConcurrency = 256

var names = []string{"alex", "ben", "chloe"}

// DelayFunc returns the artificial latency applied to the letters of word.
type DelayFunc func(word string) time.Duration

// RandomDelay returns a DelayFunc picking a uniform delay in [0, limit).
func RandomDelay(limit time.Duration) DelayFunc {
	return func(string) time.Duration {
		if limit <= 0 {
			return 0
		}
		return rand.N(limit)
	}
}

// FixedDelay returns a DelayFunc with a constant delay.
func FixedDelay(d time.Duration) DelayFunc {
	return func(string) time.Duration { return d }
}

// Service builds the name pipelines. Every method returns a cold sequence,
// so nothing runs until it is subscribed.
type Service struct {
	log         *slog.Logger
	delay       DelayFunc
	clock       stream.Clock
	concurrency int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger logs every signal of every pipeline at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithDelay replaces the per-word latency used by the async pipelines.
func WithDelay(fn DelayFunc) Option {
	return func(s *Service) {
		if fn != nil {
			s.delay = fn
		}
	}
}

// WithClock sets the clock for delays. Tests pass a virtual clock.
func WithClock(c stream.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithConcurrency bounds unordered flattening.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// New creates a Service. Without options it uses a random delay below one
// second and the system clock.
func New(opts ...Option) *Service {
	s := &Service{
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		delay:       RandomDelay(time.Second),
		clock:       stream.SystemClock,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Names emits alex, ben, chloe.
func (s *Service) Names() stream.Publisher[string] {
	return logged(s.log, stream.FromSlice(names), "names")
}

// NamesMap upper-cases the names, keeps those longer than minLen and
// prefixes each with its length: "4-ALEX", "5-CHLOE" for minLen 3.
func (s *Service) NamesMap(minLen int) stream.Publisher[string] {
	p := s.upperLongerThan(minLen)(stream.FromSlice(names))
	p = stream.Map(p, func(name string) string {
		return strconv.Itoa(length(name)) + "-" + name
	})
	return logged(s.log, p, "names_map")
}

// NamesImmutability shows that operators build new sequences: the mapped
// sequence is discarded and the plain names are returned.
func (s *Service) NamesImmutability() stream.Publisher[string] {
	p := stream.FromSlice(names)
	_ = stream.Map(p, upper)
	return p
}

// NamesFlatMap splits the selected names into letters.
func (s *Service) NamesFlatMap(minLen int) stream.Publisher[string] {
	p := s.upperLongerThan(minLen)(stream.FromSlice(names))
	return logged(s.log, stream.FlatMapUnordered(p, split, s.concurrency), "names_flatmap")
}

// NamesFlatMapAsync splits the selected names into letters delivered after
// a per-word delay. Letters of different words may interleave.
func (s *Service) NamesFlatMapAsync(minLen int) stream.Publisher[string] {
	p := s.upperLongerThan(minLen)(stream.FromSlice(names))
	return logged(s.log, stream.FlatMapUnordered(p, s.splitWithDelay, s.concurrency), "names_flatmap_async")
}

// NamesConcatMap is NamesFlatMapAsync with the word order preserved.
func (s *Service) NamesConcatMap(minLen int) stream.Publisher[string] {
	p := s.upperLongerThan(minLen)(stream.FromSlice(names))
	return logged(s.log, stream.FlatMapOrdered(p, s.splitWithDelay), "names_concatmap")
}

// NameMono emits the single name alex.
func (s *Service) NameMono() stream.Publisher[string] {
	return stream.Just("alex")
}

// NameMonoFlatMap emits one list with the letters of ALEX.
func (s *Service) NameMonoFlatMap() stream.Publisher[[]string] {
	p := stream.Map(stream.Just("alex"), upper)
	out := stream.FlatMapOrdered(p, func(name string) stream.Publisher[[]string] {
		return stream.Just(strings.Split(name, ""))
	})
	return logged(s.log, out, "name_mono_flatmap")
}

// NameMonoFlatMapMany emits the letters of ALEX one by one.
func (s *Service) NameMonoFlatMapMany() stream.Publisher[string] {
	p := stream.Map(stream.Just("alex"), upper)
	return logged(s.log, stream.FlatMapOrdered(p, split), "name_mono_flatmap_many")
}

// NamesTransform applies a reusable upper-case and length stage, splits the
// result into letters and falls back to "default" when nothing is left.
func (s *Service) NamesTransform(minLen int) stream.Publisher[string] {
	p := stream.Transform(stream.FromSlice(names), s.upperLongerThan(minLen))
	p = stream.FlatMapUnordered(p, split, s.concurrency)
	return logged(s.log, stream.DefaultIfEmpty(p, "default"), "names_transform")
}

// NamesTransformSwitchIfEmpty runs the same stage over the names and, when
// that yields nothing, over the word "default". With minLen 6 the output
// is D, E, F, A, U, L, T.
func (s *Service) NamesTransformSwitchIfEmpty(minLen int) stream.Publisher[string] {
	stage := func(p stream.Publisher[string]) stream.Publisher[string] {
		return stream.FlatMapOrdered(s.upperLongerThan(minLen)(p), split)
	}
	fallback := stream.Transform(stream.Just("default"), stage)
	p := stream.Transform(stream.FromSlice(names), stage)
	return logged(s.log, stream.SwitchIfEmpty(p, fallback), "names_transform_switch_if_empty")
}

// ExploreConcat emits A, B, C then D, E, F.
func (s *Service) ExploreConcat() stream.Publisher[string] {
	return logged(s.log, stream.Concat(stream.Just("A", "B", "C"), stream.Just("D", "E", "F")), "explore_concat")
}

// ExploreMerge emits A, B, C every 100ms and D, E, F every 125ms, merged
// as they arrive: A, D, B, E, C, F.
func (s *Service) ExploreMerge() stream.Publisher[string] {
	abc := s.paced(100*time.Millisecond, "A", "B", "C")
	def := s.paced(125*time.Millisecond, "D", "E", "F")
	return logged(s.log, stream.Merge(abc, def), "explore_merge")
}

// ExploreZip combines four sequences position by position:
// AD14, BE25, CF36.
func (s *Service) ExploreZip() stream.Publisher[string] {
	sources := []stream.Publisher[string]{
		stream.Just("A", "B", "C"),
		stream.Just("D", "E", "F"),
		stream.Just("1", "2", "3"),
		stream.Just("4", "5", "6"),
	}
	return logged(s.log, stream.Zip(sources, func(row []string) string {
		return strings.Join(row, "")
	}), "explore_zip")
}

// ExploreZip2 pairs two sequences: AD, BE, CF.
func (s *Service) ExploreZip2() stream.Publisher[string] {
	return logged(s.log, stream.Zip2(
		stream.Just("A", "B", "C"),
		stream.Just("D", "E", "F"),
		func(a, b string) string { return a + b },
	), "explore_zip2")
}

func (s *Service) upperLongerThan(minLen int) func(stream.Publisher[string]) stream.Publisher[string] {
	return func(p stream.Publisher[string]) stream.Publisher[string] {
		return stream.Filter(stream.Map(p, upper), func(name string) bool {
			return length(name) > minLen
		})
	}
}

func (s *Service) splitWithDelay(word string) stream.Publisher[string] {
	return stream.Delay(split(word), s.delay(word), stream.WithClock(s.clock))
}

// paced emits items one per period, each period starting after the
// previous item was emitted.
func (s *Service) paced(period time.Duration, items ...string) stream.Publisher[string] {
	return stream.FlatMapOrdered(stream.FromSlice(items), func(v string) stream.Publisher[string] {
		return stream.Delay(stream.Just(v), period, stream.WithClock(s.clock))
	})
}

func logged[T any](log *slog.Logger, p stream.Publisher[T], name string) stream.Publisher[T] {
	return stream.Log(p, log, name)
}

func split(word string) stream.Publisher[string] {
	return stream.FromSlice(strings.Split(word, ""))
}

// upper allocates a Caser per call; casers are not safe for concurrent use.
func upper(s string) string {
	return cases.Upper(language.English).String(s)
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}
