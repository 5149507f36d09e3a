/*
Package cfg loads typed configuration values from "parameter=value" text
files into a caller-defined schema.

File format, one directive per line:

	# comment
	Timeout=30
	CacheSize=4M
	Hosts = a.example.com, b.example.com
	Include=/etc/app.conf.d/*.conf

Blanks around keys and values are ignored, lines must be valid UTF-8 and
every line that is neither blank nor a comment must contain '='. The key
Include is reserved: its value names a file, a directory (all regular files
in it, not recursive) or a directory plus a '*' pattern in the last path
component. Included files are parsed in place, up to MaxIncludeLevel deep.

Basic usage:

	var (
	    timeout int
	    cache   uint64
	    hosts   string
	    aliases []string
	)

	schema, err := cfg.NewSchema(
	    cfg.Descriptor{Name: "Timeout", Target: cfg.Int(&timeout), Required: cfg.Mandatory, Min: 1, Max: 300},
	    cfg.Descriptor{Name: "CacheSize", Target: cfg.Uint64(&cache)},
	    cfg.Descriptor{Name: "Hosts", Target: cfg.StringList(&hosts)},
	    cfg.Descriptor{Name: "Alias", Target: cfg.MultiString(&aliases)},
	)
	if err != nil {
	    log.Fatal(err)
	}

	p := cfg.NewParser(afero.NewOsFs(), log)
	if err := p.Parse("/etc/app.conf", schema, false, true); err != nil {
	    log.Fatal(err)
	}

Numeric values accept one scale suffix from Descriptor.Suffixes (default
"KMGT", binary units). A mandatory Integer still holding 0 after parsing
counts as missing, as does a mandatory String or StringList that was never
assigned and is empty.

Errors carry file and line and match sentinels with errors.Is:

	var lineErr *cfg.LineError
	switch {
	case errors.Is(err, cfg.ErrUnknownParameter):
	case errors.Is(err, cfg.ErrRecursion):
	case errors.As(err, &lineErr):
	    fmt.Println(lineErr.File, lineErr.Line)
	}

Each failure is also logged once, at Error level, where it is detected.
*/
package cfg
