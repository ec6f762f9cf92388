package telegram

import (
	"fmt"
	"strings"

	"station-inspector/internal/domain/entity"
)

var stateNames = map[entity.CycleState]string{
	entity.StateIdle:       "ожидание",
	entity.StateAttempting: "идёт проверка",
	entity.StateSuccess:    "код найден",
	entity.StateExhausted:  "код не найден",
	entity.StateRejected:   "неверный сигнал",
}

func stateName(s entity.CycleState) string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return string(s)
}

func formatExhausted(o entity.CycleOutcome) string {
	return fmt.Sprintf("🔴 Станция %s (сигнал %d): код не найден за %d попытки.\nПроверьте деталь вручную.\n\nid: %s",
		o.Station, int(o.Signal), o.Attempts, o.TraceID)
}

func formatStatus(st entity.StationStatus) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "📊 Состояние: %s", stateName(st.State))
	if st.Current != nil {
		fmt.Fprintf(&sb, " (сигнал %d)", int(*st.Current))
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Обработано: %d\n✅ Успешно: %d\n🔴 Без кода: %d\n⚠️ Отброшено: %d",
		st.Processed, st.Succeeded, st.Exhausted, st.Rejected)

	if o := st.LastOutcome; o != nil {
		fmt.Fprintf(&sb, "\n\nПоследний цикл: %s", stateName(o.State))
		if o.Station != "" {
			fmt.Fprintf(&sb, ", станция %s", o.Station)
		}
		if o.Result != nil {
			fmt.Fprintf(&sb, ", код %q, цвет %s", o.Result.Payload, o.Result.Color)
		}
	}
	return sb.String()
}
