package catalog

import (
	"crypto/sha256"
	"fmt"
	"math"
	"math/big"
)

type oklch struct {
	L float64
	C float64
	H float64
}

var palette = []oklch{
	{63.7, 0.237, 25.331},
	{75.0, 0.183, 55.934},
	{84.1, 0.238, 128.85},
	{78.9, 0.154, 211.53},
	{62.3, 0.214, 259.815},
	{74.0, 0.238, 322.16},
	{65.6, 0.241, 354.308},
	{87.2, 0.01, 258.338},
	{91.7, 0.08, 205.041},
	{95.4, 0.038, 75.164},
	{97.3, 0.071, 103.193},
}

// assignColors derives a unique hex color per client. The palette slot
// comes from the SHA-256 of the client key; collisions walk the lightness
// up and down in 2.5 point steps within [55, 90] until the color is free.
func assignColors(clients []Client) map[string]string {
	colors := make(map[string]string, len(clients))
	used := make(map[string]bool, len(clients))
	paletteSize := big.NewInt(int64(len(palette)))

	for _, c := range clients {
		sum := sha256.Sum256([]byte(c.Key))
		slot := new(big.Int).Mod(new(big.Int).SetBytes(sum[:]), paletteSize).Int64()
		base := palette[slot]

		lightness := base.L
		for step := 0; ; step++ {
			if step > 0 {
				delta := 2.5 * float64(step)
				if step%2 == 1 {
					lightness = clampLightness(base.L - delta)
				} else {
					lightness = clampLightness(base.L + delta)
				}
			}
			color := oklchToHex(lightness, base.C, base.H)
			if !used[color] {
				used[color] = true
				colors[c.Key] = color
				break
			}
		}
	}
	return colors
}

func clampLightness(l float64) float64 {
	return math.Max(55.0, math.Min(90.0, l))
}

// oklchToHex converts an OKLCH color (lightness as a percentage) into its
// sRGB hex form.
func oklchToHex(lightnessPct, chroma, hueDeg float64) string {
	L := lightnessPct / 100.0
	a := chroma * math.Cos(hueDeg*math.Pi/180)
	b := chroma * math.Sin(hueDeg*math.Pi/180)

	lRoot := L + 0.3963377774*a + 0.2158037573*b
	mRoot := L - 0.1055613458*a - 0.0638541728*b
	sRoot := L - 0.0894841775*a - 1.2914855480*b

	l := lRoot * lRoot * lRoot
	m := mRoot * mRoot * mRoot
	s := sRoot * sRoot * sRoot

	r := 4.0767416621*l - 3.3077115913*m + 0.2309699292*s
	g := -1.2684380046*l + 2.6097574011*m - 0.3413193965*s
	bl := -0.0041960863*l - 0.7034186147*m + 1.7076147010*s

	r = clamp01(toSRGB(r))
	g = clamp01(toSRGB(g))
	bl = clamp01(toSRGB(bl))

	return fmt.Sprintf("#%02X%02X%02X", int(r*255), int(g*255), int(bl*255))
}

func toSRGB(x float64) float64 {
	if x <= 0.0031308 {
		return 12.92 * x
	}
	return 1.055*math.Pow(x, 1/2.4) - 0.055
}

func clamp01(x float64) float64 {
	return math.Min(math.Max(x, 0.0), 1.0)
}
