package main

// legacyFlags maps single-dash spellings accepted by older fpexport releases
// onto their cobra equivalents. pflag would otherwise read "-b64" as the
// shorthand cluster -b -6 -4.
var legacyFlags = map[string]string{
	"-b64": "--base64",
}

func rewriteLegacyArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		if arg == "--" {
			copy(out[i:], args[i:])
			break
		}
		if replacement, ok := legacyFlags[arg]; ok {
			out[i] = replacement
			continue
		}
		out[i] = arg
	}
	return out
}
