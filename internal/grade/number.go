package grade

import (
	"encoding/json"
	"math"
	"strconv"
)

// Number is a GradeFast score/hint value. It is carried internally as a
// float64 but serializes as an integer whenever it is exactly whole, so
// whole scores read as "8" rather than "8.0" in exports.
type Number float64

// IsIntegral reports whether n has no fractional part.
func (n Number) IsIntegral() bool {
	f := float64(n)
	return f == math.Trunc(f)
}

// MarshalJSON emits an integer literal for whole numbers and a float
// literal otherwise.
func (n Number) MarshalJSON() ([]byte, error) {
	if n.IsIntegral() {
		return []byte(strconv.FormatInt(int64(n), 10)), nil
	}
	return json.Marshal(float64(n))
}

func (n *Number) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// String renders n the same way MarshalJSON does, for CSV cells.
func (n Number) String() string {
	if n.IsIntegral() {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// MakeScoreNumber is the free-function form used where a plain float needs
// converting at a call site without wrapping it in the Number type first.
func MakeScoreNumber(x float64) Number {
	return Number(x)
}
