package hashcell

import (
	"bytes"
	"encoding/binary"
	"errors"
	"sync"
	"testing"

	"github.com/unkn0wn-root/hashcell/codec"
	"github.com/unkn0wn-root/hashcell/digest"
)

// countingDigester digests strings by content and counts how many times the
// algorithm actually ran, so tests can tell hits from misses.
func countingDigester(calls *int) digest.Digester[string] {
	inner := digest.Encoded[string]{Codec: codec.String{}}
	return digest.Func[string](func(v string) (uint64, error) {
		*calls++
		return inner.Sum64(v)
	})
}

// TestSumCachesAndReuses: two Sum calls with no mutation between them run the
// underlying algorithm exactly once and agree on the output.
func TestSumCachesAndReuses(t *testing.T) {
	var calls int
	c := New("foo", countingDigester(&calls))

	if c.IsHashed() {
		t.Fatalf("fresh cell must not be hashed")
	}
	s1, err := c.Sum()
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if !c.IsHashed() {
		t.Fatalf("Sum must populate the slot")
	}
	s2, err := c.Sum()
	if err != nil {
		t.Fatalf("Sum (hit): %v", err)
	}
	if s1 != s2 {
		t.Fatalf("hit diverged from miss: %d != %d", s1, s2)
	}
	if calls != 1 {
		t.Fatalf("expected exactly 1 computation, got %d", calls)
	}
}

// TestMutInvalidates: requesting mutable access clears the slot before the
// handle can be used, whether or not the value actually changes.
func TestMutInvalidates(t *testing.T) {
	var calls int
	c := New("foo", countingDigester(&calls))

	if _, err := c.Sum(); err != nil {
		t.Fatalf("Sum: %v", err)
	}

	p := c.Mut()
	if c.IsHashed() {
		t.Fatalf("Mut must clear the slot before exposing the value")
	}
	*p += "!"
	if got := c.Get(); got != "foo!" {
		t.Fatalf("Get after mutation: %q", got)
	}

	// unused handle still invalidates
	if _, err := c.Sum(); err != nil {
		t.Fatalf("Sum: %v", err)
	}
	_ = c.Mut()
	if c.IsHashed() {
		t.Fatalf("unused mutable handle must still invalidate")
	}
}

// TestRecomputeAfterIdleMut: invalidate without changing anything, then
// rehash. The recomputed digest must equal the original.
func TestRecomputeAfterIdleMut(t *testing.T) {
	var calls int
	d := digest.Func[[]int](func(v []int) (uint64, error) {
		calls++
		var h uint64 = 1469598103934665603
		for _, n := range v {
			h = (h ^ uint64(n)) * 1099511628211
		}
		return h, nil
	})
	c := New([]int{1, 2, 3}, d)

	s1, err := c.Sum()
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	_ = c.Mut() // invalidate, touch nothing
	s2, err := c.Sum()
	if err != nil {
		t.Fatalf("Sum after idle Mut: %v", err)
	}
	if s1 != s2 {
		t.Fatalf("same value must rehash identically: %d != %d", s1, s2)
	}
	if calls != 2 {
		t.Fatalf("expected recomputation after invalidation, got %d calls", calls)
	}
}

// TestEqualBlindToCacheState: equality tracks values only, through every
// combination of hashed/unhashed/invalidated.
func TestEqualBlindToCacheState(t *testing.T) {
	d := digest.Encoded[string]{Codec: codec.String{}}
	a := New("hi", d)
	b := New("hi", d)

	if !Equal(a, b) {
		t.Fatalf("equal values, both unhashed")
	}
	if _, err := a.Sum(); err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if !Equal(a, b) {
		t.Fatalf("equal values, one hashed")
	}
	if _, err := b.Sum(); err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if !Equal(a, b) {
		t.Fatalf("equal values, both hashed")
	}
	_ = a.Mut()
	if !Equal(a, b) {
		t.Fatalf("equal values, one invalidated")
	}

	ne := New("hello", d)
	for _, hash := range []bool{false, true} {
		if hash {
			if _, err := ne.Sum(); err != nil {
				t.Fatalf("Sum: %v", err)
			}
		}
		if Equal(a, ne) {
			t.Fatalf("unequal values compared equal (hashed=%v)", hash)
		}
	}
}

func TestCompareDelegatesToValue(t *testing.T) {
	d := digest.Encoded[string]{Codec: codec.String{}}
	a := New("a", d)
	b := New("b", d)
	if _, err := a.Sum(); err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if Compare(a, b) >= 0 || Compare(b, a) <= 0 || Compare(a, a) != 0 {
		t.Fatalf("ordering must follow values")
	}
}

// TestNewWithSum: a caller-supplied digest is trusted as-is and suppresses
// the first computation.
func TestNewWithSum(t *testing.T) {
	var calls int
	c := NewWithSum("foo", countingDigester(&calls), 99)

	if !c.IsHashed() {
		t.Fatalf("pre-supplied digest must populate the slot")
	}
	s, err := c.Sum()
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if s != 99 {
		t.Fatalf("Sum = %d, want the trusted 99", s)
	}
	if calls != 0 {
		t.Fatalf("digester must not run, got %d calls", calls)
	}

	// mutation drops the trusted digest like any other
	_ = c.Mut()
	if c.IsHashed() {
		t.Fatalf("Mut must clear a pre-supplied digest too")
	}
	if _, err := c.Sum(); err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected fresh computation after invalidation, got %d", calls)
	}
}

// TestNewWithSumZeroRemap: a caller-supplied sum of 0 is stored in its
// remapped form, so the seeded digest matches what recomputing a
// zero-digesting value would produce.
func TestNewWithSumZeroRemap(t *testing.T) {
	d := digest.Func[string](func(string) (uint64, error) { return 0, nil })
	c := NewWithSum("x", d, 0)

	s, ok := c.Cached()
	if !ok {
		t.Fatalf("seeded cell must report cached")
	}
	if s != zeroSum {
		t.Fatalf("seeded 0 must be remapped, got %d", s)
	}

	_ = c.Mut()
	recomputed, err := c.Sum()
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if recomputed != s {
		t.Fatalf("recomputation diverged from seeded digest: %d != %d", recomputed, s)
	}
}

// TestAtomicSumConcurrentReaders: with an AtomicSum slot, Sum/IsHashed/
// Cached may race freely. All readers start on an empty slot so several run
// the computation and the losers overwrite an identical digest. Run with
// -race.
func TestAtomicSumConcurrentReaders(t *testing.T) {
	d := digest.Encoded[string]{Codec: codec.String{}}
	c := New("foo", d, WithStorer(&AtomicSum{}))
	want, err := SumOf(d, "foo")
	if err != nil {
		t.Fatalf("SumOf: %v", err)
	}

	const readers = 32
	sums := make([]uint64, readers)
	errs := make([]error, readers)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_ = c.IsHashed()
			_, _ = c.Cached()
			sums[i], errs[i] = c.Sum()
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 0; i < readers; i++ {
		if errs[i] != nil {
			t.Fatalf("reader %d: Sum: %v", i, errs[i])
		}
		if sums[i] != want {
			t.Fatalf("reader %d: digest %d, want %d", i, sums[i], want)
		}
	}
	if !c.IsHashed() {
		t.Fatalf("slot must be populated after concurrent reads")
	}
}

// TestZeroSumRemap: a digester returning 0 must still yield a cacheable,
// stable digest on every path.
func TestZeroSumRemap(t *testing.T) {
	var calls int
	d := digest.Func[string](func(string) (uint64, error) {
		calls++
		return 0, nil
	})
	c := New("x", d)

	s1, err := c.Sum()
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if s1 != zeroSum {
		t.Fatalf("computed 0 must be remapped, got %d", s1)
	}
	if !c.IsHashed() {
		t.Fatalf("remapped digest must count as cached")
	}
	if s2, _ := c.Sum(); s2 != s1 {
		t.Fatalf("remapped digest not stable: %d != %d", s2, s1)
	}
	if calls != 1 {
		t.Fatalf("remapped digest must still be a cache hit, got %d calls", calls)
	}

	if bare, err := SumOf(d, "x"); err != nil || bare != s1 {
		t.Fatalf("SumOf must apply the same remap: %d, %v", bare, err)
	}
}

// TestStorerEquivalence: every storer reports the same digest for the same
// value; only retention differs.
func TestStorerEquivalence(t *testing.T) {
	d := digest.Encoded[string]{Codec: codec.String{}}
	want, err := SumOf(d, "foo")
	if err != nil {
		t.Fatalf("SumOf: %v", err)
	}

	storers := map[string]Storer{
		"sumcell": &SumCell{},
		"atomic":  &AtomicSum{},
		"nostore": NoStore{},
	}
	for name, st := range storers {
		c := New("foo", d, WithStorer(st))
		got, err := c.Sum()
		if err != nil {
			t.Fatalf("%s: Sum: %v", name, err)
		}
		if got != want {
			t.Fatalf("%s: digest %d, want %d", name, got, want)
		}
	}
}

// TestNoStoreNeverCaches: NoStore recomputes on every Sum and never reports
// hashed.
func TestNoStoreNeverCaches(t *testing.T) {
	var calls int
	c := New("foo", countingDigester(&calls), WithStorer(NoStore{}))

	s1, err := c.Sum()
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if c.IsHashed() {
		t.Fatalf("NoStore must never report hashed")
	}
	s2, err := c.Sum()
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if s1 != s2 {
		t.Fatalf("recomputations diverged: %d != %d", s1, s2)
	}
	if calls != 2 {
		t.Fatalf("expected 2 computations, got %d", calls)
	}
}

func TestWriteSumFeedsAccumulator(t *testing.T) {
	d := digest.Encoded[string]{Codec: codec.String{}}
	c := New("foo", d)

	var buf bytes.Buffer
	if err := c.WriteSum(&buf); err != nil {
		t.Fatalf("WriteSum: %v", err)
	}
	if !c.IsHashed() {
		t.Fatalf("WriteSum must populate the slot like Sum")
	}
	s, _ := c.Sum()
	if buf.Len() != 8 || binary.BigEndian.Uint64(buf.Bytes()) != s {
		t.Fatalf("accumulator got % x, want big-endian %d", buf.Bytes(), s)
	}
}

func TestDigesterErrorLeavesSlotEmpty(t *testing.T) {
	boom := errors.New("boom")
	c := New("foo", digest.Func[string](func(string) (uint64, error) { return 0, boom }))

	if _, err := c.Sum(); !errors.Is(err, boom) {
		t.Fatalf("Sum error = %v, want boom", err)
	}
	if c.IsHashed() {
		t.Fatalf("failed computation must not populate the slot")
	}

	nilCell := New[string]("foo", nil)
	if _, err := nilCell.Sum(); !errors.Is(err, ErrNilDigester) {
		t.Fatalf("nil digester error = %v", err)
	}
}

func TestStringAndSetAndInto(t *testing.T) {
	d := digest.Encoded[string]{Codec: codec.String{}}
	c := New("foo", d)
	if _, err := c.Sum(); err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if got := c.String(); got != "foo" {
		t.Fatalf("String must show the value only, got %q", got)
	}

	c.Set("bar")
	if c.IsHashed() {
		t.Fatalf("Set must invalidate")
	}
	if got := c.Into(); got != "bar" {
		t.Fatalf("Into = %q", got)
	}
}
