package sac

import (
	"encoding/binary"
	"math"
)

// Encode writes h and the component series into a SAC record in the given
// byte order. Series are concatenated in order after the header; NPTS is
// taken from h as given. Fields that h leaves at Undefined are written as
// the SAC sentinel.
func Encode(h Header, series [][]float64, order Endian) []byte {
	total := 0
	for _, s := range series {
		total += len(s)
	}
	b := make([]byte, (HeaderWords+total)*WordSize)

	var bo binary.ByteOrder = binary.LittleEndian
	if order == Big {
		bo = binary.BigEndian
	}
	putFloat := func(word int, v float32) {
		bo.PutUint32(b[word*WordSize:], math.Float32bits(v))
	}
	putInt := func(word int, v int32) {
		bo.PutUint32(b[word*WordSize:], uint32(v))
	}

	for w := 0; w < floatWords; w++ {
		putFloat(w, Undefined)
	}
	for w := floatWords; w < charStart-5; w++ {
		putInt(w, Undefined)
	}
	// logical words 105..109 stay zero
	for off := charStart * WordSize; off < HeaderBytes; off += 8 {
		copy(b[off:off+8], padChars("-12345"))
	}

	putFloat(WordDelta, h.Delta)
	putFloat(WordDepmin, h.Depmin)
	putFloat(WordDepmax, h.Depmax)
	putFloat(WordScale, h.Scale)
	putFloat(WordB, h.B)
	putFloat(WordE, h.E)
	putFloat(WordStla, h.Stla)
	putFloat(WordStlo, h.Stlo)

	putInt(WordNzyear, h.Nzyear)
	putInt(WordNzjday, h.Nzjday)
	putInt(WordNzhour, h.Nzhour)
	putInt(WordNzmin, h.Nzmin)
	putInt(WordNzsec, h.Nzsec)
	putInt(WordNzmsec, h.Nzmsec)
	putInt(WordNvhdr, h.Nvhdr)
	putInt(WordNpts, h.Npts)
	putInt(WordIdep, h.Idep)

	copy(b[WordKstnm*WordSize:], padChars(h.Kstnm))
	copy(b[WordKcmpnm*WordSize:], padChars(h.Kcmpnm))

	w := HeaderWords
	for _, s := range series {
		for _, v := range s {
			putFloat(w, float32(v))
			w++
		}
	}
	return b
}

func padChars(s string) []byte {
	out := []byte("        ")
	copy(out, s)
	return out
}
