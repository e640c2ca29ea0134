package render

import (
	"github.com/bytedance/sonic"

	"github.com/matzehuels/darkroom/pkg/border"
)

// JSON serializes calc with indentation.
func JSON(calc border.PrintCalculation) ([]byte, error) {
	return sonic.ConfigStd.MarshalIndent(calc, "", "  ")
}

// ParseJSON reverses JSON.
func ParseJSON(data []byte) (border.PrintCalculation, error) {
	var calc border.PrintCalculation
	err := sonic.ConfigStd.Unmarshal(data, &calc)
	return calc, err
}
