package models

import "time"

type WorkerStatus string

const (
	StatusAvizSolicitat  WorkerStatus = "Aviz solicitat"
	StatusAvizEmis       WorkerStatus = "Aviz emis"
	StatusVizaSolicitata WorkerStatus = "Viza solicitata"
	StatusVizaObtinuta   WorkerStatus = "Viza obtinuta"
	StatusVizaRespinsa   WorkerStatus = "Viza respinsa"
	StatusVizaRedepusa   WorkerStatus = "Viza redepusa"
	StatusCandidatRetras WorkerStatus = "Candidat retras"
	StatusSositCuCIM     WorkerStatus = "Sosit cu CIM semnat"
	StatusPSSolicitat    WorkerStatus = "Permis de sedere solicitat"
	StatusPSEmis         WorkerStatus = "Permis de sedere emis"
	StatusActiv          WorkerStatus = "Activ"
	StatusSuspendat      WorkerStatus = "Suspendat"
	StatusInactiv        WorkerStatus = "Inactiv"
)

var allWorkerStatuses = []WorkerStatus{
	StatusAvizSolicitat, StatusAvizEmis,
	StatusVizaSolicitata, StatusVizaObtinuta, StatusVizaRespinsa, StatusVizaRedepusa,
	StatusCandidatRetras, StatusSositCuCIM,
	StatusPSSolicitat, StatusPSEmis,
	StatusActiv, StatusSuspendat, StatusInactiv,
}

func (s WorkerStatus) Valid() bool {
	for _, status := range allWorkerStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Worker - lucrător migrant în procesul de recrutare/angajare.
// Numărul CIM este cheia de referință pentru importul de salarizare.
type Worker struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Nume     string `gorm:"size:50;not null" json:"nume"`
	Prenume  string `gorm:"size:50;not null" json:"prenume"`
	Cetatenie string `gorm:"size:50" json:"cetatenie"`

	PasaportNr string `gorm:"size:20;uniqueIndex;not null" json:"pasaport_nr"`
	CNP        string `gorm:"size:13" json:"cnp"`
	CodCOR     string `gorm:"size:10" json:"cod_cor"`

	CIMNr          string     `gorm:"size:50;index" json:"cim_nr"`
	DataEmitereCIM *time.Time `json:"data_emitere_cim"`

	Status WorkerStatus `gorm:"size:40;default:'Aviz solicitat'" json:"status"`

	ClientID *uint   `gorm:"index" json:"client_id"`
	Client   *Client `json:"client,omitempty"`

	// Agentul care a introdus candidatul și expertul responsabil
	AgentID  *uint `json:"agent_id"`
	ExpertID *uint `json:"expert_id"`

	Observatii string `gorm:"type:text" json:"observatii"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
