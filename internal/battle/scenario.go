package battle

// PlayerID is the soldier ID the default skirmish gives the player
const PlayerID = "player"

// SoldierSpec describes a soldier to place
type SoldierSpec struct {
	ID       string
	Name     string
	Faction  Faction
	Rank     Rank
	Player   bool
	Position Position
	Facing   Facing
	Weapon   WeaponType
}

// Build turns a spec into a full-health, fully loaded soldier
func (s SoldierSpec) Build() *Soldier {
	return &Soldier{
		ID:       s.ID,
		Name:     s.Name,
		Faction:  s.Faction,
		Rank:     s.Rank,
		Player:   s.Player,
		Position: s.Position,
		Facing:   s.Facing,
		Health:   NewHealth(DefaultHealth),
		Weapon:   NewWeapon(s.Weapon),
	}
}

// Skirmish is the default engagement: a British section facing a German
// trench line across no man's land.
func Skirmish() []SoldierSpec {
	return []SoldierSpec{
		{ID: PlayerID, Name: "Tommy Atkins", Faction: FactionAllies, Rank: RankPrivate, Player: true,
			Position: Position{X: 10, Y: 10}, Facing: FacingE, Weapon: WeaponRifle},
		{ID: "ally_1", Name: "Harris", Faction: FactionAllies, Rank: RankSergeant,
			Position: Position{X: 9, Y: 12}, Facing: FacingE, Weapon: WeaponSubmachineGun},
		{ID: "ally_2", Name: "Whitlock", Faction: FactionAllies, Rank: RankCorporal,
			Position: Position{X: 8, Y: 8}, Facing: FacingE, Weapon: WeaponRifle},
		{ID: "enemy_1", Name: "Vogel", Faction: FactionCentralPowers, Rank: RankPrivate,
			Position: Position{X: 34, Y: 10}, Facing: FacingW, Weapon: WeaponRifle},
		{ID: "enemy_2", Name: "Brandt", Faction: FactionCentralPowers, Rank: RankSergeant,
			Position: Position{X: 38, Y: 14}, Facing: FacingW, Weapon: WeaponMachineGun},
		{ID: "enemy_3", Name: "Keller", Faction: FactionCentralPowers, Rank: RankLieutenant,
			Position: Position{X: 36, Y: 6}, Facing: FacingW, Weapon: WeaponPistol},
	}
}

// SkirmishObjectives plants one flag in each trench line of the default skirmish
func SkirmishObjectives() []ObjectiveSpec {
	return []ObjectiveSpec{
		{ID: "british_trench", Position: Position{X: 8, Y: 10}, Owner: FactionAllies},
		{ID: "german_trench", Position: Position{X: 38, Y: 10}, Owner: FactionCentralPowers},
	}
}
