package reveal

const (
	// masterEntropyBytes is how much secure random material feeds the master seed
	masterEntropyBytes = 32

	// winnerSeedIndex is the reserved sub-seed index for the winner position,
	// kept outside the [0,96) item index range
	winnerSeedIndex = -1

	// valueSeedSuffix derives the independent value roll from an item's sub-seed
	valueSeedSuffix = ":v"

	// unitDiscardBits / unitMantissaBits turn a 64-bit digest prefix into a
	// uniform float64 in [0,1)
	unitDiscardBits  = 11
	unitMantissaBits = 53
)
