package converter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"vmr2tei/internal/config"
)

const sampleApparatus = `<?xml version="1.0" encoding="UTF-8"?>
<apparatus>
  <segment verse="Acts.1.1" wordsegs="2-4">
    <segmentReading label="a" witnesses="01 03 Byz">τον λογον</segmentReading>
    <segmentReading label="b" witnesses="05" reading="om."/>
    <segmentReading label="zz" witnesses="P45"/>
  </segment>
  <segment verse="Acts.1.2">
    <segmentReading label="a" witnesses="01 L:V">και</segmentReading>
  </segment>
</apparatus>`

type fakeFetcher struct {
	body []byte
	err  error
	got  string
}

func (f *fakeFetcher) FetchApparatus(ctx context.Context, index string) ([]byte, error) {
	f.got = index
	return f.body, f.err
}

func TestConvert(t *testing.T) {
	fetcher := &fakeFetcher{body: []byte(sampleApparatus)}
	c := New(config.Default(), fetcher)

	var stages []string
	res, err := c.Convert(context.Background(), "Acts.1.1-2", func(p Progress) {
		stages = append(stages, p.Stage)
	})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if fetcher.got != "Acts.1.1-2" {
		t.Errorf("fetched index = %q", fetcher.got)
	}
	if res.Book != "Acts" {
		t.Errorf("Book = %q, want Acts", res.Book)
	}
	if res.Units != 2 {
		t.Errorf("Units = %d, want 2", res.Units)
	}
	if res.Witnesses == 0 {
		t.Error("registry should not be empty")
	}

	out := string(res.TEI)
	for _, want := range []string{
		`<TEI xmlns="http://www.tei-c.org/ns/1.0">`,
		`<app n="Acts.1.1/2-4">`,
		`<app n="Acts.1.2">`,
		"τον λογον",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("TEI missing %q", want)
		}
	}
	// The Byz token is configured for Acts and must be expanded away.
	if strings.Contains(out, "Byz") {
		t.Error("group token should not survive conversion")
	}

	wantStages := []string{StageFetch, StageParse, StageCollate, StageSerialize, StageDone}
	if len(stages) != len(wantStages) {
		t.Fatalf("stages = %v, want %v", stages, wantStages)
	}
	for i := range wantStages {
		if stages[i] != wantStages[i] {
			t.Errorf("stage %d = %q, want %q", i, stages[i], wantStages[i])
		}
	}
}

func TestConvertNilProgress(t *testing.T) {
	c := New(config.Default(), &fakeFetcher{body: []byte(sampleApparatus)})
	if _, err := c.Convert(context.Background(), "Acts.1", nil); err != nil {
		t.Fatalf("Convert with nil progress failed: %v", err)
	}
}

func TestConvertBadIndex(t *testing.T) {
	c := New(config.Default(), &fakeFetcher{body: []byte(sampleApparatus)})
	if _, err := c.Convert(context.Background(), "not an index", nil); err == nil {
		t.Error("Convert should reject a malformed index")
	}
}

func TestConvertFetchError(t *testing.T) {
	fetchErr := errors.New("network down")
	c := New(config.Default(), &fakeFetcher{err: fetchErr})
	_, err := c.Convert(context.Background(), "Acts.1", nil)
	if !errors.Is(err, fetchErr) {
		t.Errorf("Convert error = %v, want fetch error", err)
	}
}

func TestConvertMissingWitnesses(t *testing.T) {
	broken := `<apparatus><segment verse="Acts.1.1">
		<segmentReading label="a" reading="x"/>
	</segment></apparatus>`
	c := New(config.Default(), &fakeFetcher{body: []byte(broken)})
	if _, err := c.Convert(context.Background(), "Acts.1.1", nil); err == nil {
		t.Error("Convert should fail when a reading has no witnesses attribute")
	}
}
