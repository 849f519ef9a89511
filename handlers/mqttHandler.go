package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"termometro/geo"
	"termometro/metrics"
	"termometro/models"
	"termometro/services"
)

const mqttProcessTimeout = 15 * time.Second

// mqttReport is the payload a device publishes on the reports topic.
type mqttReport struct {
	Aula          string   `json:"aula"`
	Temperatura   string   `json:"temperatura"`
	Lat           *float64 `json:"lat,omitempty"`
	Lon           *float64 `json:"lon,omitempty"`
	PosicionError string   `json:"posicion_error,omitempty"`
}

// MQTTResult is published on <topic>/resultado after each message.
type MQTTResult struct {
	Aula            string         `json:"aula"`
	Resultado       models.Outcome `json:"resultado,omitempty"`
	Mensaje         string         `json:"mensaje"`
	DistanciaMetros *float64       `json:"distancia_metros,omitempty"`
}

// MQTTIngestor feeds reports received over MQTT through the submission gate.
type MQTTIngestor struct {
	gate    *services.Gate
	topic   string
	metrics *metrics.Metrics
	client  mqtt.Client
	publish func(topic string, payload []byte)
}

func NewMQTTIngestor(gate *services.Gate, topic string, m *metrics.Metrics) *MQTTIngestor {
	return &MQTTIngestor{gate: gate, topic: topic, metrics: m}
}

// ResultTopic is where outcomes are published.
func (i *MQTTIngestor) ResultTopic() string {
	return i.topic + "/resultado"
}

// Connect dials broker and subscribes on every (re)connection.
func (i *MQTTIngestor) Connect(broker string) error {
	clientID := fmt.Sprintf("termometro-%d", time.Now().UnixNano())
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetOrderMatters(false).
		SetOnConnectHandler(func(c mqtt.Client) {
			if token := c.Subscribe(i.topic, 1, i.HandleMessage); token.Wait() && token.Error() != nil {
				log.Printf("❌ Failed to subscribe to %s: %v", i.topic, token.Error())
				return
			}
			log.Printf("✅ Subscribed to MQTT topic %s", i.topic)
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Printf("❌ MQTT connection lost: %v", err)
		})

	if err := i.connect(mqtt.NewClient(opts)); err != nil {
		return fmt.Errorf("failed to connect to broker %s: %w", broker, err)
	}
	log.Printf("Connected to MQTT broker %s as %s", broker, clientID)
	return nil
}

// connect binds client before dialling; the on-connect subscription can
// deliver messages before Connect returns.
func (i *MQTTIngestor) connect(client mqtt.Client) error {
	i.client = client
	i.publish = func(topic string, payload []byte) {
		token := client.Publish(topic, 1, false, payload)
		if token.WaitTimeout(5*time.Second) && token.Error() != nil {
			log.Printf("❌ Failed to publish to %s: %v", topic, token.Error())
		}
	}
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		i.client, i.publish = nil, nil
		return token.Error()
	}
	return nil
}

// HandleMessage is the paho callback for the reports topic.
func (i *MQTTIngestor) HandleMessage(_ mqtt.Client, msg mqtt.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), mqttProcessTimeout)
	defer cancel()

	result := i.Process(ctx, msg.Payload())
	if i.publish == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		log.Printf("❌ Failed to encode MQTT result: %v", err)
		return
	}
	i.publish(i.ResultTopic(), payload)
}

// Process decodes one payload and runs it through the gate.
func (i *MQTTIngestor) Process(ctx context.Context, payload []byte) MQTTResult {
	var in mqttReport
	if err := json.Unmarshal(payload, &in); err != nil {
		log.Printf("Invalid MQTT payload: %v", err)
		i.metrics.ObserveMQTT("invalid")
		return MQTTResult{Mensaje: "payload inválido"}
	}

	temp, err := models.ParseTemperatura(in.Temperatura)
	if err != nil {
		temp = models.Temperatura(strings.TrimSpace(in.Temperatura))
	}

	var coord *geo.Coordinate
	if in.Lat != nil && in.Lon != nil {
		coord = &geo.Coordinate{Lat: *in.Lat, Lon: *in.Lon}
	}

	receipt, err := i.gate.Submit(ctx, models.Selection{Aula: in.Aula, Temperatura: temp}, services.PositionFromClient(coord, in.PosicionError))
	result := MQTTResult{Aula: in.Aula, Resultado: receipt.Outcome, DistanciaMetros: receipt.DistanceMeters}
	if receipt.Outcome != "" {
		result.Mensaje = receipt.Message()
	}
	if err != nil && receipt.Outcome == "" {
		i.metrics.ObserveMQTT("invalid")
		result.Mensaje = err.Error()
		return result
	}
	if err != nil {
		i.metrics.ObserveMQTT("error")
		return result
	}
	i.metrics.ObserveMQTT("processed")
	return result
}

// Close disconnects from the broker.
func (i *MQTTIngestor) Close() {
	if i.client != nil && i.client.IsConnected() {
		i.client.Disconnect(250)
	}
}
