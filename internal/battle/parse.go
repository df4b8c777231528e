package battle

import (
	"strings"

	"github.com/KirkDiggler/trenchturn/internal/errors"
)

var rankNames = map[string]Rank{
	"pvt": RankPrivate, "private": RankPrivate,
	"cpl": RankCorporal, "corporal": RankCorporal,
	"sgt": RankSergeant, "sergeant": RankSergeant,
	"lt": RankLieutenant, "lieutenant": RankLieutenant,
	"cpt": RankCaptain, "capt": RankCaptain, "captain": RankCaptain,
}

// ParseFaction accepts "allies" or "central_powers" in any case.
// Dashes and spaces may stand in for the underscore.
func ParseFaction(s string) (Faction, error) {
	switch normalize(s) {
	case string(FactionAllies):
		return FactionAllies, nil
	case string(FactionCentralPowers):
		return FactionCentralPowers, nil
	default:
		return "", errors.InvalidArgumentf("unknown faction %q", s)
	}
}

// ParseRank accepts abbreviations ("Sgt") and full names ("sergeant").
// Empty means private.
func ParseRank(s string) (Rank, error) {
	if strings.TrimSpace(s) == "" {
		return RankPrivate, nil
	}
	r, ok := rankNames[strings.TrimSuffix(normalize(s), ".")]
	if !ok {
		return RankPrivate, errors.InvalidArgumentf("unknown rank %q", s)
	}
	return r, nil
}

// ParseFacing accepts compass abbreviations. Empty means north.
func ParseFacing(s string) (Facing, error) {
	if strings.TrimSpace(s) == "" {
		return FacingN, nil
	}
	upper := strings.ToUpper(strings.TrimSpace(s))
	for i, name := range facingNames {
		if name == upper {
			return Facing(i), nil
		}
	}
	return FacingN, errors.InvalidArgumentf("unknown facing %q", s)
}

// ParseWeaponType accepts any of WeaponTypeNames. Empty means rifle.
func ParseWeaponType(s string) (WeaponType, error) {
	if strings.TrimSpace(s) == "" {
		return WeaponRifle, nil
	}
	t := WeaponType(normalize(s))
	if _, ok := weaponStats[t]; !ok {
		return "", errors.InvalidArgumentf("unknown weapon %q", s)
	}
	return t, nil
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}
