package benchmarking

import (
	"math/rand"

	"github.com/nathanhack/fecsim/fec"
)

// RandomMessage creates a random message of length len.
func RandomMessage(rng *rand.Rand, len int) fec.Bits {
	message := fec.Zeros(len)
	for i := 0; i < len; i++ {
		message[i] = uint8(rng.Intn(2))
	}
	return message
}

// RandomMessages creates count random messages of length len.
func RandomMessages(rng *rand.Rand, count, len int) []fec.Bits {
	messages := make([]fec.Bits, count)
	for i := range messages {
		messages[i] = RandomMessage(rng, len)
	}
	return messages
}

// RandomMessageOnesCount creates a random message of length len with a hamming weight equal to onesCount
func RandomMessageOnesCount(rng *rand.Rand, len int, onesCount int) fec.Bits {
	message := fec.Zeros(len)
	for message.Weight() < onesCount && message.Weight() < len {
		message[rng.Intn(len)] = 1
	}
	return message
}

// RandomFlipBitCount randomly flips min(numberOfBitsToFlip,len(input)) number of bits.
func RandomFlipBitCount(rng *rand.Rand, input fec.Bits, numberOfBitsToFlip int) fec.Bits {
	mask := RandomMessageOnesCount(rng, len(input), numberOfBitsToFlip)
	output := input.Clone()
	for i := range output {
		output[i] ^= mask[i]
	}
	return output
}
