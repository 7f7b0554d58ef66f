package event

// Event type names. Types are passed without the "on" prefix; the legacy
// registration model adds it.
const (
	// Mouse
	Click      = "click"
	DblClick   = "dblclick"
	MouseDown  = "mousedown"
	MouseUp    = "mouseup"
	MouseOver  = "mouseover"
	MouseOut   = "mouseout"
	MouseMove  = "mousemove"
	MouseWheel = "mousewheel"

	// Keyboard
	KeyPress = "keypress"
	KeyDown  = "keydown"
	KeyUp    = "keyup"
	Paste    = "paste"

	// Focus
	Blur  = "blur"
	Focus = "focus"

	// Drag and drop
	DragStart = "dragstart"
	Drag      = "drag"
	DragEnter = "dragenter"
	DragOver  = "dragover"
	DragLeave = "dragleave"
	DragExit  = "dragexit"
	DragEnd   = "dragend"
	Drop      = "drop"

	// Forms
	Change = "change"
	Select = "select"
	Submit = "submit"
	Reset  = "reset"

	// Document and window
	Load             = "load"
	Unload           = "unload"
	Help             = "help"
	Resize           = "resize"
	Scroll           = "scroll"
	ReadyStateChange = "readystatechange"
	ContextMenu      = "contextmenu"
	Error            = "error"
	DOMContentLoaded = "DOMContentLoaded"

	// Proprietary to legacy hosts
	MouseEnter = "mouseenter"
	MouseLeave = "mouseleave"
	Deactivate = "deactivate"
	FocusIn    = "focusin"
	FocusOut   = "focusout"
	HashChange = "hashchange"
	Abort      = "abort"
	Activate   = "activate"
	AfterPrint = "afterprint"

	// Clipboard
	Copy = "copy"
	Cut  = "cut"
)
