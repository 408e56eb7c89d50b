// Package solicitud define la máquina de estados de las solicitudes de
// material y las reglas puras asociadas (folio, observaciones, motivo de salida).
//
//	PENDIENTE ──► AUTORIZADA ──► COMPLETADA
//	    │
//	    └──────► RECHAZADA
//
// Ninguna transición regresa a PENDIENTE.
package solicitud

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// AuthorizationMarker separa en observaciones los comentarios de autorización.
const AuthorizationMarker = "--- AUTORIZACIÓN ---"

var transitions = map[entity.Estado][]entity.Estado{
	entity.EstadoPendiente:  {entity.EstadoAutorizada, entity.EstadoRechazada},
	entity.EstadoAutorizada: {entity.EstadoCompletada},
}

// CanTransition informa si from → to es una transición válida.
func CanTransition(from, to entity.Estado) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal informa si el estado ya no admite transiciones.
func IsTerminal(e entity.Estado) bool {
	return len(transitions[e]) == 0
}

// ParseEstado valida un estado contra el conjunto fijo.
func ParseEstado(s string) (entity.Estado, bool) {
	e := entity.Estado(strings.ToUpper(strings.TrimSpace(s)))
	switch e {
	case entity.EstadoPendiente, entity.EstadoAutorizada, entity.EstadoRechazada, entity.EstadoCompletada:
		return e, true
	}
	return "", false
}

// IsDecision informa si e es una decisión válida de autorización.
func IsDecision(e entity.Estado) bool {
	return e == entity.EstadoAutorizada || e == entity.EstadoRechazada
}

// ParseTipo valida el tipo de solicitud.
func ParseTipo(s string) (entity.SolicitudTipo, bool) {
	t := entity.SolicitudTipo(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case entity.TipoEntrada, entity.TipoSalida:
		return t, true
	}
	return "", false
}

// GenerateFolio arma el folio {TIPO}-{AÑO}-{últimos 6 dígitos de epoch ms}.
func GenerateFolio(tipo entity.SolicitudTipo, now time.Time) string {
	return fmt.Sprintf("%s-%04d-%06d", tipo, now.Year(), now.UnixMilli()%1_000_000)
}

// AppendAuthorization agrega el comentario de autorización al final de las
// observaciones existentes. Nunca reemplaza lo anterior.
func AppendAuthorization(observaciones, comment string) string {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return observaciones
	}
	block := AuthorizationMarker + "\n" + comment
	if strings.TrimSpace(observaciones) == "" {
		return block
	}
	return observaciones + "\n" + block
}

// ExitReason motivo de las salidas generadas por una solicitud; permite
// rastrear la salida hasta su origen.
func ExitReason(solicitudID int64, folio string) string {
	return fmt.Sprintf("Solicitud #%d (%s)", solicitudID, folio)
}
