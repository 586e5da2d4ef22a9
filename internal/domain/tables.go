package domain

var Tables = []interface{}{
	// CRM
	&CrmCustomer{},
	&CrmProduct{},
	&CrmOrder{},
	// System
	&CrmOprLog{},
}
