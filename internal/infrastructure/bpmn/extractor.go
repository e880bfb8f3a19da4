package bpmn

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/Kahlain/bpmn-analysis/internal/core/domain"
)

var taskKinds = map[string]domain.TaskType{
	"task":       domain.TaskTypeOrdinary,
	"sendTask":   domain.TaskTypeSend,
	"manualTask": domain.TaskTypeManual,
}

// Extractor walks a decoded document and produces the raw extraction: one
// property map per task-like element plus its owning process and lane.
type Extractor struct {
	reader *Reader
}

func NewExtractor() *Extractor {
	return &Extractor{reader: NewReader()}
}

func (e *Extractor) Extract(docID, filename string, data []byte) (*domain.SourceDocument, error) {
	doc, err := e.reader.Read(data)
	if err != nil {
		return nil, err
	}

	root := doc.Root()
	out := &domain.SourceDocument{
		ID:              docID,
		Filename:        filename,
		Exporter:        root.SelectAttrValue("exporter", ""),
		ExporterVersion: root.SelectAttrValue("exporterVersion", ""),
		TargetNamespace: root.SelectAttrValue("targetNamespace", ""),
		Stats:           countStats(doc),
	}

	processSwimlane := participantNames(root)

	for _, process := range childrenByLocal(root, "process") {
		processID := process.SelectAttrValue("id", "")
		processName := process.SelectAttrValue("name", "")
		if processName == "" {
			processName = processID
		}
		if processName == "" {
			processName = domain.UnknownLane
		}

		laneByTask := laneMembership(process)
		fallbackLane := processSwimlane[processID]

		// Children are walked in document order so tasks keep their
		// source ordering across the three recognized kinds.
		count := 0
		for _, child := range process.ChildElements() {
			kind, ok := taskKinds[child.Tag]
			if !ok {
				continue
			}
			raw := extractTask(child, kind, processName)
			raw.Lane = resolveLane(raw.ID, laneByTask, fallbackLane)
			out.Tasks = append(out.Tasks, raw)
			count++
		}

		out.Processes = append(out.Processes, domain.Process{
			Name:      processName,
			SourceDoc: docID,
			TaskCount: count,
		})
	}

	return out, nil
}

// extractTask reads one task element's vendor properties. A task without an
// extension block still yields a raw task with an empty property map; the
// normalizer defaults everything downstream.
func extractTask(task *etree.Element, kind domain.TaskType, processName string) domain.RawTask {
	raw := domain.RawTask{
		ID:         task.SelectAttrValue("id", ""),
		Name:       task.SelectAttrValue("name", ""),
		Type:       kind,
		Process:    processName,
		Properties: map[string]string{},
	}

	ext := firstByLocal(task, "extensionElements")
	if ext == nil {
		return raw
	}
	for _, props := range childrenByLocal(ext, "properties") {
		for _, prop := range childrenByLocal(props, "property") {
			name := prop.SelectAttrValue("name", "")
			if name == "" {
				continue
			}
			raw.Properties[name] = prop.SelectAttrValue("value", "")
		}
	}
	return raw
}

// laneMembership maps task identifiers to lane names using the process's
// lane sets (lane -> flowNodeRef lists).
func laneMembership(process *etree.Element) map[string]string {
	byTask := map[string]string{}
	for _, laneSet := range childrenByLocal(process, "laneSet") {
		for _, lane := range childrenByLocal(laneSet, "lane") {
			laneName := lane.SelectAttrValue("name", "")
			if laneName == "" {
				laneName = lane.SelectAttrValue("id", domain.UnknownLane)
			}
			for _, ref := range childrenByLocal(lane, "flowNodeRef") {
				id := strings.TrimSpace(ref.Text())
				if id != "" {
					byTask[id] = laneName
				}
			}
		}
	}
	return byTask
}

// participantNames maps process identifiers to the collaboration participant
// names declared for them. When a process has no lane sets, the participant
// name is the swimlane for every task in it.
func participantNames(root *etree.Element) map[string]string {
	names := map[string]string{}
	for _, collab := range childrenByLocal(root, "collaboration") {
		for _, participant := range childrenByLocal(collab, "participant") {
			ref := participant.SelectAttrValue("processRef", "")
			name := participant.SelectAttrValue("name", "")
			if ref != "" && name != "" {
				names[ref] = name
			}
		}
	}
	return names
}

func resolveLane(taskID string, laneByTask map[string]string, fallback string) string {
	if lane, ok := laneByTask[taskID]; ok {
		return lane
	}
	if fallback != "" {
		return fallback
	}
	return domain.UnknownLane
}
