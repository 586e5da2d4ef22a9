package domain

import "time"

// CrmOprLog records entity-creation audit events published on the bus.
type CrmOprLog struct {
	ID        int64     `json:"id,string"`
	OptAction string    `json:"opt_action"`
	OptDesc   string    `json:"opt_desc"`
	OptTime   time.Time `json:"opt_time"`
}

// TableName Specify table name
func (CrmOprLog) TableName() string {
	return "crm_opr_log"
}
