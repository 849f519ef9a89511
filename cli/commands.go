package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"termometro/geo"
	"termometro/models"
)

func newRoomsCommand(deps Dependencies, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "aulas",
		Short: "Lista las aulas disponibles.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := ParseFormat(flags.Format)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			profile, err := loadProfile(ctx, deps)
			if err != nil {
				return err
			}

			rooms, err := deps.api(resolveServer(flags, profile)).Rooms(ctx)
			if err != nil {
				return fmt.Errorf("No se pudo cargar la lista de aulas: %w", err)
			}

			if format != FormatTable {
				text, err := renderPayload(map[string]any{"aulas": rooms, "total": len(rooms)}, format)
				if err != nil {
					return err
				}
				return writeText(cmd.OutOrStdout(), text)
			}
			rows := make([][]string, 0, len(rooms))
			for _, r := range rooms {
				rows = append(rows, []string{r})
			}
			return writeText(cmd.OutOrStdout(), renderTable([]string{"AULA"}, rows))
		},
	}
}

type reportFlags struct {
	Aula        string
	Temperatura string
	Lat         float64
	Lon         float64
	Direccion   string
}

func newReportCommand(deps Dependencies, flags *globalFlags) *cobra.Command {
	rf := &reportFlags{}
	cmd := &cobra.Command{
		Use:   "reportar",
		Short: "Envía un reporte de temperatura para un aula.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := ParseFormat(flags.Format)
			if err != nil {
				return err
			}
			temp, err := models.ParseTemperatura(rf.Temperatura)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			profile, err := loadProfile(ctx, deps)
			if err != nil {
				return err
			}

			req := models.ReportRequest{Aula: strings.TrimSpace(rf.Aula), Temperatura: string(temp)}
			if req.Aula != "" {
				req.Posicion, req.PosicionError, err = resolvePosition(ctx, cmd, deps, rf, profile)
				if err != nil {
					return err
				}
			}

			api := deps.api(resolveServer(flags, profile))
			view := NewController(deps.chart, WithStatusListener(func(st Status) {
				if st.Kind == StatusInfo && format == FormatTable {
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), st.Text)
				}
			}))
			view.Mount()
			defer view.Unmount()

			res, err := view.Submit(ctx, func(ctx context.Context) (models.ReportResponse, error) {
				return api.Submit(ctx, req)
			})
			if err != nil {
				return fmt.Errorf("No se pudo enviar el reporte: %w", err)
			}

			if format != FormatTable {
				text, err := renderPayload(res, format)
				if err != nil {
					return err
				}
				if err := writeText(cmd.OutOrStdout(), text); err != nil {
					return err
				}
			} else {
				text := res.Mensaje
				if res.DistanciaMetros != nil {
					text += fmt.Sprintf(" (a %.0f m del centro)", *res.DistanciaMetros)
				}
				if err := writeText(cmd.OutOrStdout(), text); err != nil {
					return err
				}
			}

			if !res.Resultado.Accepted() {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rf.Aula, "aula", "", "Aula a reportar.")
	cmd.Flags().StringVar(&rf.Temperatura, "temperatura", "", "frio o calor. [required]")
	cmd.Flags().Float64Var(&rf.Lat, "lat", 0, "Latitud del dispositivo.")
	cmd.Flags().Float64Var(&rf.Lon, "lon", 0, "Longitud del dispositivo.")
	cmd.Flags().StringVar(&rf.Direccion, "direccion", "", "Dirección a geocodificar. No se combina con --lat/--lon.")
	_ = cmd.MarkFlagRequired("temperatura")
	return cmd
}

// resolvePosition picks the device position: explicit flags, then a geocoded
// address, then the profile. Without any of them the position is reported
// as unsupported and the server decides.
func resolvePosition(ctx context.Context, cmd *cobra.Command, deps Dependencies, rf *reportFlags, profile Profile) (*geo.Coordinate, string, error) {
	latSet := cmd.Flags().Changed("lat")
	lonSet := cmd.Flags().Changed("lon")
	address := strings.TrimSpace(rf.Direccion)

	switch {
	case address != "" && (latSet || lonSet):
		return nil, "", errors.New("No combines --direccion con --lat/--lon.")
	case latSet != lonSet:
		return nil, "", errors.New("--lat y --lon se usan juntos.")
	case latSet:
		c := geo.Coordinate{Lat: rf.Lat, Lon: rf.Lon}
		if !c.Valid() {
			return nil, "", fmt.Errorf("coordenada fuera de rango: %s", c)
		}
		return &c, "", nil
	case address != "":
		if deps.Geocoder == nil {
			return nil, "unavailable", nil
		}
		c, err := deps.Geocoder.Lookup(ctx, address)
		if err != nil {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
			return nil, "unavailable", nil
		}
		return &c, "", nil
	}

	if c, ok := profile.Position(); ok {
		return &c, "", nil
	}
	return nil, "unsupported", nil
}

func newStatsCommand(deps Dependencies, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "estadisticas",
		Short: "Muestra los reportes por aula.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := ParseFormat(flags.Format)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			profile, err := loadProfile(ctx, deps)
			if err != nil {
				return err
			}

			view := NewController(deps.chart)
			view.Mount()
			defer view.Unmount()

			api := deps.api(resolveServer(flags, profile))
			stats, chart, err := view.LoadStats(ctx, api.Stats)
			if err != nil {
				return fmt.Errorf("No se pudieron cargar las estadísticas: %w", err)
			}

			if format != FormatTable {
				text, err := renderPayload(stats, format)
				if err != nil {
					return err
				}
				return writeText(cmd.OutOrStdout(), text)
			}
			return writeText(cmd.OutOrStdout(), renderStats(chart, stats))
		},
	}
}

func renderStats(chart string, stats models.Stats) string {
	rows := make([][]string, 0, len(stats.Rows))
	for _, r := range stats.Rows {
		rows = append(rows, []string{r.Aula, strconv.Itoa(r.Frio), strconv.Itoa(r.Calor)})
	}
	return chart + "\n\n" +
		renderTable([]string{"AULA", "FRIO", "CALOR"}, rows) + "\n" +
		fmt.Sprintf("Total: %d", stats.Total)
}

func newProfileCommand(deps Dependencies, flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "perfil",
		Short: "Administra el perfil local.",
	}

	var lat, lon float64
	save := &cobra.Command{
		Use:   "guardar",
		Short: "Guarda servidor y posición por defecto.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if deps.Profiles == nil {
				return errors.New("profile store is not available")
			}
			ctx := cmd.Context()
			profile, err := loadProfile(ctx, deps)
			if err != nil {
				return err
			}
			if s := strings.TrimSpace(flags.Server); s != "" {
				profile.Servidor = s
			}
			if cmd.Flags().Changed("lat") {
				v := lat
				profile.Lat = &v
			}
			if cmd.Flags().Changed("lon") {
				v := lon
				profile.Lon = &v
			}
			if err := deps.Profiles.Save(ctx, profile); err != nil {
				return err
			}
			return writeText(cmd.OutOrStdout(), "Perfil guardado en "+deps.Profiles.Path())
		},
	}
	save.Flags().Float64Var(&lat, "lat", 0, "Latitud por defecto.")
	save.Flags().Float64Var(&lon, "lon", 0, "Longitud por defecto.")

	show := &cobra.Command{
		Use:   "mostrar",
		Short: "Muestra el perfil guardado.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := loadProfile(cmd.Context(), deps)
			if err != nil {
				return err
			}
			format, err := ParseFormat(flags.Format)
			if err != nil {
				return err
			}
			if format == FormatTable {
				format = FormatYAML
			}
			text, err := renderPayload(profile, format)
			if err != nil {
				return err
			}
			return writeText(cmd.OutOrStdout(), text)
		},
	}

	cmd.AddCommand(save, show)
	return cmd
}
