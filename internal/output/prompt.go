package output

import (
	"errors"

	"github.com/manifoldco/promptui"
)

// Confirm asks the operator a yes/no question. It returns false (without
// error) when the answer is no; promptui reports "no" as an error, which
// is normalized here.
func Confirm(message string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     message,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
