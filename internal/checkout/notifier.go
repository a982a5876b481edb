package checkout

import (
	"fmt"
	"io"
)

// TextNotifier prints notices for the command line client.
type TextNotifier struct {
	Out io.Writer
}

func (n *TextNotifier) Show(notice Notice) {
	if notice.Kind == NoticeSuccess {
		fmt.Fprintf(n.Out, "✔ %s\n", notice.Message)
		return
	}
	fmt.Fprintf(n.Out, "✖ %s\n", notice.Message)
	if len(notice.Details) > 0 {
		fmt.Fprintln(n.Out, "Issues:")
		for _, d := range notice.Details {
			fmt.Fprintf(n.Out, "  • %s\n", d)
		}
	}
}

// Clear is a no-op: printed lines stay on the terminal.
func (n *TextNotifier) Clear() {}
