// Package systems provides the per-tick subsystems the director runs:
// spatial queries, morale, behavior, and projectiles.
package systems

import "math"

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// normalizeAngle wraps an angle to [-Pi, Pi].
func normalizeAngle(angle float32) float32 {
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle < -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

// distanceSqXZ returns the squared XZ-plane distance between two points.
func distanceSqXZ(x1, z1, x2, z2 float32) float32 {
	dx := x1 - x2
	dz := z1 - z2
	return dx*dx + dz*dz
}

// distanceXZ returns the XZ-plane distance between two points.
func distanceXZ(x1, z1, x2, z2 float32) float32 {
	return float32(math.Sqrt(float64(distanceSqXZ(x1, z1, x2, z2))))
}

func cosf(a float32) float32 { return float32(math.Cos(float64(a))) }
func sinf(a float32) float32 { return float32(math.Sin(float64(a))) }

// atan2f returns the XZ-plane angle of the vector (dx, dz).
func atan2f(dz, dx float32) float32 {
	return float32(math.Atan2(float64(dz), float64(dx)))
}
