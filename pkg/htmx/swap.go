package htmx

// Swap is an hx-swap strategy.
type Swap string

const (
	SwapInnerHTML Swap = "innerHTML"
	SwapOuterHTML Swap = "outerHTML"
	SwapBeforeEnd Swap = "beforeend"
	SwapDelete    Swap = "delete"
	SwapNone      Swap = "none"
)
