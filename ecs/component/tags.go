package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type EnemyTag struct{}

var EnemyTagComponent = NewComponent[EnemyTag]()

// BossTag marks the encounter's designated actor. Walkers use its presence to
// switch off guarding.
type BossTag struct{}

var BossTagComponent = NewComponent[BossTag]()

// Layer is a bitmask used to filter spatial queries.
type Layer uint32

const (
	LayerPlayer Layer = 1 << iota
	LayerEnemy
	LayerBoss

	LayerHostile = LayerEnemy | LayerBoss
	LayerAll     = ^Layer(0)
)

// ParseLayer maps a prefab tag name to its layer bit.
func ParseLayer(name string) Layer {
	switch name {
	case "player":
		return LayerPlayer
	case "enemy":
		return LayerEnemy
	case "boss":
		return LayerBoss
	case "hostile":
		return LayerHostile
	case "all":
		return LayerAll
	default:
		return 0
	}
}
