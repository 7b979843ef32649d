package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/confscope/confscope/app"
	"github.com/confscope/confscope/domain/conf"
	"github.com/confscope/confscope/domain/scope"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var getCmd = &cobra.Command{
	Use:   "get <schema> <scope> [id]",
	Short: "Resolve the effective configuration for a scope",
	Long: `Resolve the effective configuration bundle for a schema at a scope.

Scope is one of: system, tenant, group, instance. System takes no id;
tenant and group take a numeric id; instance takes a name.

Examples:
  confscope get billing system
  confscope get billing tenant 7
  confscope get theme instance widget-42`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runGet,
}

var setCmd = &cobra.Command{
	Use:   "set <schema> <scope> [id] key=value [key=value...]",
	Short: "Store the configuration bundle for a scope",
	Args:  cobra.MinimumNArgs(3),
	RunE:  runSet,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <schema> <scope> [id]",
	Short: "Delete the configuration bundle for a scope",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runDelete,
}

var listCmd = &cobra.Command{
	Use:   "list <schema>",
	Short: "List the scopes a schema is configured at",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

var getSafe bool

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listCmd)

	getCmd.Flags().BoolVar(&getSafe, "safe", false, "return an empty result instead of failing")
}

// parseKey turns scope name + optional id arguments into a store key.
func parseKey(scopeName string, idArgs []string) (scope.Key, error) {
	kind, err := scope.ParseKind(scopeName)
	if err != nil {
		return scope.Key{}, err
	}

	switch kind {
	case scope.KindSystem:
		if len(idArgs) != 0 {
			return scope.Key{}, fmt.Errorf("system scope takes no id")
		}
		return scope.SystemKey(), nil

	case scope.KindTenant, scope.KindGroup:
		if len(idArgs) != 1 {
			return scope.Key{}, fmt.Errorf("%s scope requires a numeric id", kind)
		}
		id, err := strconv.ParseInt(idArgs[0], 10, 64)
		if err != nil {
			return scope.Key{}, fmt.Errorf("%s id %q not numeric", kind, idArgs[0])
		}
		if kind == scope.KindTenant {
			return scope.TenantKey(id), nil
		}
		return scope.GroupKey(id), nil

	default: // instance
		if len(idArgs) != 1 {
			return scope.Key{}, fmt.Errorf("instance scope requires a name")
		}
		return scope.InstanceKey(idArgs[0]), nil
	}
}

// descriptorFor builds the explicit-identifier descriptor matching a key.
func descriptorFor(key scope.Key) scope.Descriptor {
	switch key.Kind {
	case scope.KindTenant:
		id, _ := strconv.ParseInt(key.ID, 10, 64)
		return scope.Tenant(id)
	case scope.KindGroup:
		id, _ := strconv.ParseInt(key.ID, 10, 64)
		return scope.Group(id)
	case scope.KindInstance:
		return scope.Instance(key.ID)
	default:
		return scope.System()
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	store, cleanup, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	key, err := parseKey(args[1], args[2:])
	if err != nil {
		return err
	}

	resolver := app.NewResolver(store, logger)

	var values conf.Values
	if getSafe {
		values = resolver.ResolveSafe(context.Background(), args[0], descriptorFor(key))
		if values == nil {
			values = conf.Values{}
		}
	} else {
		values, err = resolver.Resolve(context.Background(), args[0], descriptorFor(key))
		if err != nil {
			return err
		}
	}

	out, err := yaml.Marshal(values)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}

func runSet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	editor, cleanup, err := openEditor(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// Split leading scope arguments from key=value pairs.
	var pairStart int
	for pairStart = 1; pairStart < len(args); pairStart++ {
		if strings.Contains(args[pairStart], "=") {
			break
		}
	}

	key, err := parseKey(args[1], args[2:pairStart])
	if err != nil {
		return err
	}

	values := make(conf.Values)
	for _, pair := range args[pairStart:] {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return fmt.Errorf("invalid pair %q (want key=value)", pair)
		}
		values[k] = v
	}
	if len(values) == 0 {
		return fmt.Errorf("no key=value pairs given")
	}

	if err := editor.Set(context.Background(), args[0], key, values); err != nil {
		return fmt.Errorf("failed to store bundle: %w", err)
	}

	fmt.Printf("Stored %d value(s) for %s at %s\n", len(values), args[0], key)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	editor, cleanup, err := openEditor(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	key, err := parseKey(args[1], args[2:])
	if err != nil {
		return err
	}

	if err := editor.Delete(context.Background(), args[0], key); err != nil {
		return fmt.Errorf("failed to delete bundle: %w", err)
	}

	fmt.Printf("Deleted %s at %s\n", args[0], key)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	editor, cleanup, err := openEditor(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	keys, err := editor.List(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to list scopes: %w", err)
	}

	if len(keys) == 0 {
		fmt.Println("No configuration found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCOPE\tID")
	fmt.Fprintln(w, "-----\t--")
	for _, key := range keys {
		fmt.Fprintf(w, "%s\t%s\n", key.Kind, key.ID)
	}
	return w.Flush()
}
