package spatial

// Base32 alphabet used by geohash encoding
const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// EncodeGeohash encodes latitude and longitude into a geohash string.
// precision is clamped to 1-12 characters.
func EncodeGeohash(lat, lng float64, precision int) string {
	if precision < 1 {
		precision = 1
	}
	if precision > 12 {
		precision = 12
	}

	latMin, latMax := -90.0, 90.0
	lngMin, lngMax := -180.0, 180.0

	out := make([]byte, 0, precision)
	ch := 0
	bits := 0
	even := true

	for len(out) < precision {
		if even {
			mid := (lngMin + lngMax) / 2
			if lng > mid {
				ch |= 1 << (4 - bits)
				lngMin = mid
			} else {
				lngMax = mid
			}
		} else {
			mid := (latMin + latMax) / 2
			if lat > mid {
				ch |= 1 << (4 - bits)
				latMin = mid
			} else {
				latMax = mid
			}
		}
		even = !even

		bits++
		if bits == 5 {
			out = append(out, base32[ch])
			bits = 0
			ch = 0
		}
	}

	return string(out)
}
