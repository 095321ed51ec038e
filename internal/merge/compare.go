package merge

import "github.com/iudanet/gophsync/internal/models"

// Change классификация изменения поля относительно base
type Change int

// Change константы
const (
	NoChange      Change = iota // NoChange значения совпадают
	LocalChanged                // LocalChanged изменила только локальная сторона
	ServerChanged               // ServerChanged изменил только сервер
	Converged                   // Converged обе стороны пришли к одному значению
	Conflict                    // Conflict обе стороны изменили поле по-разному
)

func (c Change) String() string {
	switch c {
	case NoChange:
		return "unchanged"
	case LocalChanged:
		return "local_changed"
	case ServerChanged:
		return "server_changed"
	case Converged:
		return "converged"
	case Conflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Compare классифицирует поле. Без base (ThreeWay=false) различие значений - всегда Conflict.
func Compare(in Input) Change {
	same := models.SameField(in.Local, in.HasLocal, in.Server, in.HasServer)
	if !in.ThreeWay {
		if same {
			return NoChange
		}
		return Conflict
	}

	localChanged := !models.SameField(in.Local, in.HasLocal, in.Base, in.HasBase)
	serverChanged := !models.SameField(in.Server, in.HasServer, in.Base, in.HasBase)

	switch {
	case !localChanged && !serverChanged:
		return NoChange
	case localChanged && !serverChanged:
		return LocalChanged
	case !localChanged && serverChanged:
		return ServerChanged
	case same:
		return Converged
	default:
		return Conflict
	}
}

// Field возвращает Input для поля из трех записей. base может быть nil.
func Field(name string, local, server, base *models.Record) Input {
	in := Input{Field: name}
	in.Local, in.HasLocal = local.Get(name)
	in.Server, in.HasServer = server.Get(name)
	if base != nil {
		in.ThreeWay = true
		in.Base, in.HasBase = base.Get(name)
	}
	return in
}
