package models

// Resolution способ, которым был получен итоговый вариант записи
type Resolution string

// Resolution константы
const (
	ResolutionLocalWins    Resolution = "local_wins"
	ResolutionServerWins   Resolution = "server_wins"
	ResolutionMerged       Resolution = "merged"
	ResolutionUserDecision Resolution = "user_decision"
	// ResolutionUnchanged конфликта нет: изменившаяся сторона передается как есть, без увеличения версии
	ResolutionUnchanged Resolution = "unchanged"
)

// IsAutomatic сообщает, получен ли результат без участия пользователя
func (r Resolution) IsAutomatic() bool {
	return r == ResolutionLocalWins || r == ResolutionServerWins || r == ResolutionMerged
}

// FieldConflict описывает реальный конфликт поля, разрешенный эвристикой стратегии
type FieldConflict struct {
	Field    string   `json:"field"`
	Strategy string   `json:"strategy"`
	Reason   string   `json:"reason,omitempty"`
	Keys     []string `json:"keys,omitempty"` // Keys пересекающиеся ключи для map-полей
}

// Attempt запись о попытке резолвера в рамках одной политики
type Attempt struct {
	Resolver string `json:"resolver"`
	Error    string `json:"error,omitempty"`
}

// ResolutionMetadata дополнительная информация о разрешении конфликта
type ResolutionMetadata struct {
	OverlappingKeys map[string][]string `json:"overlapping_keys,omitempty"` // OverlappingKeys поле -> ключи map, пересекшиеся при наложении
	Winner          string              `json:"winner,omitempty"`           // Winner "local" или "server" для стратегий выбора стороны
	Reason          string              `json:"reason,omitempty"`           // Reason краткое объяснение решения
	Conflicts       []FieldConflict     `json:"conflicts,omitempty"`        // Conflicts реальные конфликты полей
	Attempts        []Attempt           `json:"attempts,omitempty"`         // Attempts неудачные попытки резолверов до итогового
	Postponed       bool                `json:"postponed,omitempty"`        // Postponed пользователь отложил решение
}

// ResolutionResult итог разрешения конфликта.
// Для всех результатов, кроме UserDecision/Unchanged, Record.Version = max(local, server) + 1.
type ResolutionResult struct {
	Record                   *Record            `json:"record,omitempty"`
	Resolution               Resolution         `json:"resolution"`
	StrategyName             string             `json:"strategy_name"`
	Metadata                 ResolutionMetadata `json:"metadata"`
	RequiresUserIntervention bool               `json:"requires_user_intervention"`
}

// ChoiceKind вариант решения пользователя
type ChoiceKind string

// ChoiceKind константы
const (
	ChoiceKeepLocal   ChoiceKind = "keep_local"
	ChoiceKeepServer  ChoiceKind = "keep_server"
	ChoiceManualMerge ChoiceKind = "manual_merge"
	ChoicePostpone    ChoiceKind = "postpone"
)

// UserChoice решение пользователя по конфликту.
// Record заполняется только для ChoiceManualMerge.
type UserChoice struct {
	Record *Record
	Kind   ChoiceKind
}

// KeepLocal выбирает локальную реплику
func KeepLocal() UserChoice { return UserChoice{Kind: ChoiceKeepLocal} }

// KeepServer выбирает серверную реплику
func KeepServer() UserChoice { return UserChoice{Kind: ChoiceKeepServer} }

// Postpone откладывает решение до следующего цикла синхронизации
func Postpone() UserChoice { return UserChoice{Kind: ChoicePostpone} }

// ManualMerge принимает запись, собранную пользователем вручную
func ManualMerge(r *Record) UserChoice { return UserChoice{Kind: ChoiceManualMerge, Record: r} }
