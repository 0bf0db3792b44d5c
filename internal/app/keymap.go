package app

// Key binding constants used in handleKey.
const (
	KeyQuit       = "q"
	KeyCtrlC      = "ctrl+c"
	KeySpace      = " "
	KeyEnter      = "enter"
	KeyUp         = "up"
	KeyDown       = "down"
	KeyLeft       = "left"
	KeyRight      = "right"
	KeyShiftLeft  = "shift+left"
	KeyShiftRight = "shift+right"
	KeyJ          = "j"
	KeyK          = "k"
	KeyStop       = "s"
	KeyEditor     = "e"
	KeyNormalize  = "n"
	KeyReverse    = "v"
	KeyResetEdit  = "x"
	KeyPitchDown  = "["
	KeyPitchUp    = "]"
	KeyPitchZero  = "0"
	KeyDelete     = "d"
	KeyGenerate   = "g"
	KeyArrange    = "a"
	KeyRender     = "R"
	KeySave       = "w"
)
