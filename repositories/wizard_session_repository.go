package repositories

import (
	"time"

	"github.com/AnthonyFclub/glor-crm/wizard"
	"github.com/karlseguin/ccache/v3"
)

// WizardSessionTTL es el tiempo sin uso tras el cual se descarta un borrador
const WizardSessionTTL = 2 * time.Hour

// WizardSessionRepository guarda las sesiones vivas del asistente. No hay
// persistencia: un borrador existe solo mientras su sesión esté en memoria.
type WizardSessionRepository interface {
	Save(session *wizard.Session)
	Get(id string) (*wizard.Session, bool)
	Delete(id string)
	Close()
}

type wizardSessionRepository struct {
	cache *ccache.Cache[*wizard.Session]
	ttl   time.Duration
}

// NewWizardSessionRepository crea el almacén en memoria con el TTL indicado
func NewWizardSessionRepository(ttl time.Duration) WizardSessionRepository {
	return &wizardSessionRepository{
		cache: ccache.New(ccache.Configure[*wizard.Session]().MaxSize(5000)),
		ttl:   ttl,
	}
}

func (r *wizardSessionRepository) Save(session *wizard.Session) {
	r.cache.Set(session.ID, session, r.ttl)
}

// Get devuelve la sesión y renueva su vencimiento
func (r *wizardSessionRepository) Get(id string) (*wizard.Session, bool) {
	item := r.cache.Get(id)
	if item == nil || item.Expired() {
		return nil, false
	}
	item.Extend(r.ttl)
	return item.Value(), true
}

func (r *wizardSessionRepository) Delete(id string) {
	r.cache.Delete(id)
}

func (r *wizardSessionRepository) Close() {
	r.cache.Stop()
}
