package component

// KillCredit marks a spawned actor whose death may count toward kill
// pressure once Armed. SpawnedAt is unscaled time.
type KillCredit struct {
	SpawnedAt float64
	ArmDelay  float64
	Armed     bool
}

var KillCreditComponent = NewComponent[KillCredit]()
