package interp

import "strconv"

// CommonNum returns the least type in the arithmetic lattice
// (logical < integer < double) supporting both a and b. Character never
// widens down to a numeric type for arithmetic; CommonNum's second return
// is false in that case (§4.A).
func CommonNum(a, b Mode) (Mode, bool) {
	if a == ModeCharacter || b == ModeCharacter {
		return 0, false
	}
	if a > b {
		return a, true
	}
	return b, true
}

// CommonCmp returns the type two modes should be coerced to before
// comparison. Character forms its own branch: any mixed (numeric, string)
// pair promotes the numeric side to character (§3.1, §4.A).
func CommonCmp(a, b Mode) Mode {
	if a == ModeCharacter || b == ModeCharacter {
		return ModeCharacter
	}
	if a > b {
		return a
	}
	return b
}

// CoerceScalar converts a single scalar into the target mode. NA values
// propagate; an unparsable character->numeric conversion yields NA rather
// than failing.
func CoerceScalar(s Scalar, to Mode) Scalar {
	from := modeOf(s)
	if from == to {
		return s
	}
	if s.IsNA() {
		return naOf(to)
	}
	switch from {
	case ModeLogical:
		l := s.(Logical)
		switch to {
		case ModeInteger:
			if l == True {
				return Integer(1)
			}
			return Integer(0)
		case ModeDouble:
			if l == True {
				return Double(1)
			}
			return Double(0)
		case ModeCharacter:
			return NewCharacter(l.String())
		}
	case ModeInteger:
		i := s.(Integer)
		switch to {
		case ModeLogical:
			if i == 0 {
				return False
			}
			return True
		case ModeDouble:
			return Double(i)
		case ModeCharacter:
			return NewCharacter(i.String())
		}
	case ModeDouble:
		d := s.(Double)
		switch to {
		case ModeLogical:
			if d == 0 {
				return False
			}
			return True
		case ModeInteger:
			return Integer(int32(d))
		case ModeCharacter:
			return NewCharacter(d.String())
		}
	case ModeCharacter:
		c := s.(Character)
		switch to {
		case ModeLogical:
			switch c.Value {
			case "TRUE", "T", "true":
				return True
			case "FALSE", "F", "false":
				return False
			default:
				return NALogical
			}
		case ModeInteger:
			n, err := strconv.ParseInt(c.Value, 10, 32)
			if err != nil {
				return NAInteger
			}
			return Integer(n)
		case ModeDouble:
			f, err := strconv.ParseFloat(c.Value, 64)
			if err != nil {
				return NADouble
			}
			return Double(f)
		}
	}
	panic("interp: unreachable coercion")
}

// CoerceInto coerces every element of s to mode to, preserving length.
func CoerceInto(s []Scalar, to Mode) []Scalar {
	out := make([]Scalar, len(s))
	for i, v := range s {
		out[i] = CoerceScalar(v, to)
	}
	return out
}
