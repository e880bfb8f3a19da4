package bpmn

import (
	"strings"
	"testing"

	"github.com/Kahlain/bpmn-analysis/internal/core/domain"
)

func TestReadRejectsTruncatedXML(t *testing.T) {
	reader := NewReader()

	_, err := reader.Read([]byte(`<definitions><process id="p1">`))
	if err == nil {
		t.Fatal("expected error for truncated document")
	}
	if !domain.IsKind(err, domain.ErrMalformedDocument) {
		t.Fatalf("expected malformed document kind, got %v", err)
	}
}

func TestReadRejectsNonXMLBytes(t *testing.T) {
	reader := NewReader()

	_, err := reader.Read([]byte("PK\x03\x04 this is a zip, not xml"))
	if err == nil {
		t.Fatal("expected error for non-xml bytes")
	}
	if !domain.IsKind(err, domain.ErrMalformedDocument) {
		t.Fatalf("expected malformed document kind, got %v", err)
	}
}

func TestReadKeepsDecoderPosition(t *testing.T) {
	reader := NewReader()

	_, err := reader.Read([]byte("<definitions>\n<process>\n</wrong>\n</definitions>"))
	if err == nil {
		t.Fatal("expected error for mismatched close tag")
	}
	if !strings.Contains(err.Error(), "line") {
		t.Fatalf("expected line position in error, got %q", err.Error())
	}
}

func TestCountStatsIgnoresNamespacePrefixes(t *testing.T) {
	reader := NewReader()

	doc, err := reader.Read([]byte(`
<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL">
  <bpmn:process id="p1">
    <bpmn:task id="t1"/>
    <bpmn:sendTask id="t2"/>
    <bpmn:manualTask id="t3"/>
    <bpmn:userTask id="skipped"/>
  </bpmn:process>
  <bpmn:process id="p2">
    <bpmn:task id="t4"/>
  </bpmn:process>
</bpmn:definitions>`))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	stats := countStats(doc)
	if stats.TaskElements != 4 {
		t.Fatalf("expected 4 task elements, got %d", stats.TaskElements)
	}
	if stats.ProcessElements != 2 {
		t.Fatalf("expected 2 process elements, got %d", stats.ProcessElements)
	}
}

func TestChildrenByLocalReturnsSliceForOneOrMany(t *testing.T) {
	reader := NewReader()

	doc, err := reader.Read([]byte(`
<definitions>
  <process id="solo"/>
  <collaboration id="c1"/>
  <collaboration id="c2"/>
</definitions>`))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got := childrenByLocal(doc.Root(), "process"); len(got) != 1 {
		t.Fatalf("expected single process child as a slice of 1, got %d", len(got))
	}
	if got := childrenByLocal(doc.Root(), "collaboration"); len(got) != 2 {
		t.Fatalf("expected 2 collaboration children, got %d", len(got))
	}
	if got := childrenByLocal(doc.Root(), "laneSet"); got != nil {
		t.Fatalf("expected nil for absent children, got %v", got)
	}
}
