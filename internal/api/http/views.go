package http

import (
	"time"

	"station-inspector/internal/domain/entity"
)

type stationView struct {
	State       entity.CycleState `json:"state"`
	Current     *int              `json:"current_signal,omitempty"`
	LastOutcome *outcomeView      `json:"last_outcome,omitempty"`
	Processed   uint64            `json:"processed"`
	Succeeded   uint64            `json:"succeeded"`
	Exhausted   uint64            `json:"exhausted"`
	Rejected    uint64            `json:"rejected"`
}

type outcomeView struct {
	TraceID    string            `json:"trace_id"`
	Signal     int               `json:"signal"`
	Station    string            `json:"station,omitempty"`
	State      entity.CycleState `json:"state"`
	Attempts   int               `json:"attempts"`
	QRCode     string            `json:"qrcode,omitempty"`
	Color      entity.Color      `json:"color,omitempty"`
	FinishedAt time.Time         `json:"finished_at"`
	DurationMS int64             `json:"duration_ms"`
}

func newStationView(st entity.StationStatus) stationView {
	v := stationView{
		State:     st.State,
		Processed: st.Processed,
		Succeeded: st.Succeeded,
		Exhausted: st.Exhausted,
		Rejected:  st.Rejected,
	}
	if st.Current != nil {
		cur := int(*st.Current)
		v.Current = &cur
	}
	if o := st.LastOutcome; o != nil {
		last := outcomeView{
			TraceID:    o.TraceID,
			Signal:     int(o.Signal),
			Station:    o.Station,
			State:      o.State,
			Attempts:   o.Attempts,
			FinishedAt: o.FinishedAt,
			DurationMS: o.Duration().Milliseconds(),
		}
		if o.Result != nil {
			last.QRCode = o.Result.Payload
			last.Color = o.Result.Color
		}
		v.LastOutcome = &last
	}
	return v
}
