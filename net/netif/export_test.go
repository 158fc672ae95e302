package netif

var Classify = classify

func ResetDefault() {
	defaultInterface.Store(nil)
}
