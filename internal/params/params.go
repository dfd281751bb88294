package params

const (
	// SecParam is the size in bits of commitment decommitments and transcript digests.
	SecParam = 256
	SecBytes = SecParam / 8

	// MinSafePrime and MaxSafePrime bound the prime p of a safe prime 2p + 1,
	// keeping the modulus below 2³¹.
	MinSafePrime = 1 << 15
	MaxSafePrime = 1<<30 - 1

	// MinShamirPrime and MaxShamirPrime bound the prime modulus of the three-pass cipher.
	MinShamirPrime = 1<<15 - 1 // INT16_MAX
	MaxShamirPrime = 1<<31 - 1 // INT32_MAX

	// MinRSAPrime and MaxRSAPrime bound the factors of an RSA modulus.
	// The modulus then fits in 30 bits, so that signed 32-bit records can carry any residue.
	MinRSAPrime = 1<<8 - 1  // UINT8_MAX
	MaxRSAPrime = 1<<15 - 1 // INT16_MAX

	// RSAPublicExponent is the fixed public exponent e.
	RSAPublicExponent = 3

	// MinGOSTOrder and MaxGOSTOrder bound the prime order q of the GOST subgroup.
	MinGOSTOrder = 1 << 15
	MaxGOSTOrder = 1<<16 - 1
	// MinGOSTCofactor is the smallest b in p = b⋅q + 1.
	MinGOSTCofactor = 1<<15 - 1
	// MaxGOSTModulus bounds p = b⋅q + 1.
	MaxGOSTModulus = 1<<31 - 1

	// VoteEntropyMin and VoteEntropyMax bound the random high word of a vote.
	VoteEntropyMin = 1 << 31
	VoteEntropyMax = 1<<32 - 1
	// VoteEntropyShift is the position of the random high word in a vote.
	VoteEntropyShift = 32

	// DeckSize is the number of cards in a deck, encoded as 2..DeckSize+1.
	DeckSize = 52
	// FirstCard is the plaintext value of the first card, avoiding the fixed points 0 and 1.
	FirstCard = 2
	// MinPlayers and MaxPlayers bound the size of a poker table.
	MinPlayers = 2
	MaxPlayers = 10
)
