package chart

import (
	"fmt"

	"github.com/vk/courseflow/internal/event"
	"github.com/vk/courseflow/internal/topic"
)

// requiredAt records the last event a topic was required in and the node it
// was drawn as there.
type requiredAt struct {
	ev   *event.Event
	node string
}

// drawEventFunc draws one event starting at the given rank and returns the
// maximum rank it used, with ok=false when it drew nothing.
type drawEventFunc func(ev *event.Event, startRank int) (maxRank int, ok bool, err error)

// eventFrame is the shared machinery of charts that nest topics inside
// event, group, and unit clusters and pin the layout with an invisible
// chain of rank nodes.
type eventFrame struct {
	*builder
	eventGraphs map[string]*Graph
	eventOrder  []*event.Event
	groupGraphs map[int]map[string]*Graph
	groupOrder  []groupKey
	unitGraphs  map[int]*Graph
	unitOrder   []int

	latestRequired map[string]requiredAt
	rankNodes      map[int]string
	lastRank       int
	rankStarted    bool
	nodeRanks      map[string]int
}

type groupKey struct {
	unit  int
	group string
}

func newEventFrame(ctx Context, name string) *eventFrame {
	return &eventFrame{
		builder:        newBuilder(ctx, name),
		eventGraphs:    make(map[string]*Graph),
		groupGraphs:    make(map[int]map[string]*Graph),
		unitGraphs:     make(map[int]*Graph),
		latestRequired: make(map[string]requiredAt),
		rankNodes:      make(map[int]string),
		nodeRanks:      make(map[string]int),
	}
}

// drawAll walks the curriculum in chronological order, unit by unit and
// group by group, handing each event to drawEvent.
func (f *eventFrame) drawAll(drawEvent drawEventFunc) error {
	seq := f.ctx.Resolver.Events()
	startRank := 0
	for _, unit := range seq.Units() {
		rank, ok, err := f.drawUnit(unit, startRank, drawEvent)
		if err != nil {
			return err
		}
		if ok && rank+1 > startRank {
			startRank = rank + 1
		}
	}
	return nil
}

func (f *eventFrame) drawUnit(unit, startRank int, drawEvent drawEventFunc) (int, bool, error) {
	seq := f.ctx.Resolver.Events()
	maxRank := 0
	drew := false
	for _, group := range seq.Groups(unit) {
		rank, ok, err := f.drawGroup(unit, group, startRank, drawEvent)
		if err != nil {
			return 0, false, err
		}
		if ok {
			startRank = rank + 1
			if !drew || rank > maxRank {
				maxRank = rank
			}
			drew = true
		}
	}
	return maxRank, drew, nil
}

func (f *eventFrame) drawGroup(unit int, group string, startRank int, drawEvent drawEventFunc) (int, bool, error) {
	seq := f.ctx.Resolver.Events()
	maxRank := 0
	drew := false
	for _, ev := range seq.EventsIn(unit, group) {
		rank, ok, err := drawEvent(ev, startRank)
		if err != nil {
			return 0, false, err
		}
		if ok && (!drew || rank > maxRank) {
			maxRank = rank
			drew = true
		}
	}
	return maxRank, drew, nil
}

// drawTopic draws a topic node inside its event cluster, colored by side.
func (f *eventFrame) drawTopic(t *topic.Topic, ev *event.Event) string {
	g, ok := f.eventGraphs[ev.Name]
	if !ok {
		g = NewGraph(ev.Name)
		g.Cluster = true
		f.eventGraphs[ev.Name] = g
		f.eventOrder = append(f.eventOrder, ev)
	}
	color := f.ctx.Style.RequiredColor
	if ev.SideOf(t) == event.Taught {
		color = f.ctx.Style.TaughtColor
	}
	var attrs Attrs
	if color != "" {
		attrs = Attrs{"color": color}
	}
	return f.declareNode(g, Qualify(t, ev), t.Name, attrs)
}

// skeletonAttrs colors the rank skeleton: invisible normally, red when
// debugging rank assignment.
func (f *eventFrame) skeletonAttrs(shape bool) Attrs {
	attrs := make(Attrs)
	if f.ctx.DebugRank {
		attrs["color"] = "red"
		if shape {
			attrs["shape"] = "ellipse"
		}
	} else {
		attrs["color"] = "invis"
		if shape {
			attrs["shape"] = "point"
		}
	}
	return attrs
}

func (f *eventFrame) drawRankNode() string {
	return f.declareNode(nil, fmt.Sprintf("rank_node_%d", f.lastRank), "", f.skeletonAttrs(true))
}

// ensureRank extends the rank-node chain far enough to anchor rank.
func (f *eventFrame) ensureRank(rank int) {
	if !f.rankStarted {
		f.rankStarted = true
		f.lastRank = 0
		f.rankNodes[0] = f.drawRankNode()
	}
	for f.lastRank < rank {
		f.lastRank++
		name := f.drawRankNode()
		f.rankNodes[f.lastRank] = name
		f.declareEdge(f.rankNodes[f.lastRank-1], name, f.skeletonAttrs(false))
	}
}

// drawRankEdge pins a node to a rank, offset by the topic's taught depth
// within its event when adjustDepth is set.
func (f *eventFrame) drawRankEdge(node string, baseRank int, adjustDepth bool, t *topic.Topic, ev *event.Event) (int, error) {
	rank := baseRank
	if adjustDepth {
		if t == nil || ev == nil {
			return 0, fmt.Errorf("rank depth adjustment needs a topic and an event")
		}
		depth, err := f.ctx.Resolver.TopicTaughtDepth(t, ev)
		if err != nil {
			return 0, err
		}
		rank += depth
	}
	f.nodeRanks[node] = rank
	if rank > 0 {
		f.ensureRank(rank - 1)
		f.declareEdge(f.rankNodes[rank-1], node, f.skeletonAttrs(false))
	}
	return rank, nil
}

// drawTopicAndDependencies draws a taught topic and connects it to the most
// recent taught time of each of its dependencies. The optional predicate
// filters which dependencies get an edge.
func (f *eventFrame) drawTopicAndDependencies(t *topic.Topic, ev *event.Event, baseRank int,
	pred func(*topic.Topic) bool) (int, error) {
	head := f.drawTopic(t, ev)
	rank, err := f.drawRankEdge(head, baseRank, ev.Taught.Has(t), t, ev)
	if err != nil {
		return 0, err
	}
	for _, dep := range t.Dependencies().Sorted() {
		if pred != nil && !pred(dep) {
			continue
		}
		lastTaught, err := f.ctx.Resolver.MostRecentTaught(ev, dep, true)
		if err != nil {
			return 0, err
		}
		if lastTaught != nil {
			f.declareEdge(Qualify(dep, lastTaught), head, Attrs{"constraint": "false"})
		}
	}
	return rank, nil
}

// tailNode picks the node a required topic hangs off: the more recent of
// its last taught time and its last required time.
func (f *eventFrame) tailNode(t *topic.Topic, ev *event.Event, includeStart bool) (string, bool, error) {
	lastTaught, err := f.ctx.Resolver.MostRecentTaught(ev, t, includeStart)
	if err != nil {
		return "", false, err
	}
	lastRequired, wasRequired := f.latestRequired[t.Name]
	switch {
	case !wasRequired && lastTaught == nil:
		return "", false, nil
	case !wasRequired:
		return Qualify(t, lastTaught), true, nil
	case lastTaught == nil:
		return lastRequired.node, true, nil
	case lastRequired.ev.Less(lastTaught):
		return Qualify(t, lastTaught), true, nil
	default:
		return lastRequired.node, true, nil
	}
}

// drawRequiredTopic draws a required topic and connects it to wherever it
// was most recently seen.
func (f *eventFrame) drawRequiredTopic(t *topic.Topic, ev *event.Event, startRank int) (int, error) {
	head := f.drawTopic(t, ev)
	rank, err := f.drawRankEdge(head, startRank, false, nil, nil)
	if err != nil {
		return 0, err
	}
	tail, ok, err := f.tailNode(t, ev, false)
	if err != nil {
		return 0, err
	}
	if ok {
		f.declareEdge(tail, head, Attrs{"constraint": "false"})
	} else {
		f.ctx.Reporter.Warningf("topic '%s' is not taught before it is required in '%s'", t.Name, ev.Name)
	}
	f.latestRequired[t.Name] = requiredAt{ev: ev, node: head}
	return rank, nil
}

// drawEventFull draws every topic of an event: taught topics with their
// dependency edges, required topics chained from their last occurrence.
func (f *eventFrame) drawEventFull(ev *event.Event, startRank int) (int, bool, error) {
	maxRank := 0
	drew := false
	for _, t := range ev.AllTopics() {
		var rank int
		var err error
		if ev.SideOf(t) == event.Taught {
			rank, err = f.drawTopicAndDependencies(t, ev, startRank, nil)
		} else {
			rank, err = f.drawRequiredTopic(t, ev, startRank)
		}
		if err != nil {
			return 0, false, err
		}
		if !drew || rank > maxRank {
			maxRank = rank
			drew = true
		}
	}
	return maxRank, drew, nil
}

// finish nests every event cluster in its group cluster, every group in its
// unit cluster, and every unit in the main graph.
func (f *eventFrame) finish() *Graph {
	for _, ev := range f.eventOrder {
		f.finishEvent(ev)
	}
	for _, key := range f.groupOrder {
		f.finishGroup(key.unit, key.group)
	}
	for _, unit := range f.unitOrder {
		f.graph.AddSub(f.unitGraphs[unit])
	}
	return f.graph
}

func (f *eventFrame) finishEvent(ev *event.Event) {
	groups, ok := f.groupGraphs[ev.Unit]
	if !ok {
		groups = make(map[string]*Graph)
		f.groupGraphs[ev.Unit] = groups
	}
	group, ok := groups[ev.GroupID]
	if !ok {
		group = NewGraph(fmt.Sprintf("%d%s", ev.Unit, ev.GroupID))
		group.Cluster = true
		group.SetAttr("newrank", "true")
		group.SetAttr("style", "invis")
		groups[ev.GroupID] = group
		f.groupOrder = append(f.groupOrder, groupKey{unit: ev.Unit, group: ev.GroupID})
	}
	g := f.eventGraphs[ev.Name]
	g.SetAttr("style", "dashed")
	g.SetAttr("label", ev.Name)
	group.AddSub(g)
}

func (f *eventFrame) finishGroup(unit int, group string) {
	unitGraph, ok := f.unitGraphs[unit]
	if !ok {
		unitGraph = NewGraph(fmt.Sprintf("Unit %d", unit))
		unitGraph.Cluster = true
		unitGraph.SetAttr("margin", "16")
		unitGraph.SetAttr("penwidth", "3")
		unitGraph.SetAttr("newrank", "true")
		unitGraph.SetAttr("style", "rounded")
		unitGraph.SetAttr("label", fmt.Sprintf("Unit %d", unit))
		f.unitGraphs[unit] = unitGraph
		f.unitOrder = append(f.unitOrder, unit)
	}
	unitGraph.AddSub(f.groupGraphs[unit][group])
}
